package constvars

const (
	ResponseSuccess = "Success"

	UserSuccessfullyRegistered = "User successfully registered"
	UserSuccessfullyLoggedIn   = "User successfully logged in"
	UserSuccessfullyLoggedOut  = "User successfully logged out"
	ProfileSuccessfullyUpdated = "Profile successfully updated"

	ReservationSuccessfullyCreated   = "Reservation successfully created"
	ReservationSuccessfullyCancelled = "Reservation successfully cancelled"

	PaymentOrderSuccessfullyCreated = "Payment order successfully created"
	PaymentSuccessfullyVerified     = "Payment successfully verified"
	WebhookSuccessfullyProcessed    = "Webhook successfully processed"

	PrescriptionSuccessfullyCreated = "Prescription successfully created"
)
