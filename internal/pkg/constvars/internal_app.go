package constvars

type contextKey string

const (
	CONTEXT_REQUEST_ID_KEY           = contextKey("requestID")
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY = contextKey("isClientRequestID")
	CONTEXT_PRINCIPAL_KEY            = contextKey("principal")
)

// Roles carried in token claims and stored on users.
const (
	RoleUser   = "user"
	RoleDoctor = "doctor"
	RoleAdmin  = "admin"
)

// Reservation lifecycle.
const (
	ReservationStatusBooked    = "booked"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusCompleted = "completed"

	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Reservation kinds. Medicine orders carry no slot.
const (
	ReservationKindDoctorAppointment = "doctor_appointment"
	ReservationKindLabAppointment    = "lab_appointment"
	ReservationKindMedicineOrder     = "medicine_order"
)

// Catalog resource kinds.
const (
	ResourceKindDoctor   = "doctor"
	ResourceKindLab      = "lab"
	ResourceKindMedicine = "medicine"
)

const (
	MongoCollectionUsers         = "users"
	MongoCollectionReservations  = "reservations"
	MongoCollectionSlotClaims    = "slot_claims"
	MongoCollectionResources     = "resources"
	MongoCollectionPrescriptions = "prescriptions"
)

const (
	RedisSessionKeyFormat         = "session:%s"
	RedisReservationLockKeyFormat = "lock:reservation:%s"
)

const (
	GatewayWebhookEventPaymentCaptured = "payment.captured"

	RabbitMQReservationConfirmedRoutingKey = "reservation.confirmed"

	SlotDateLayout = "2006-01-02"
)
