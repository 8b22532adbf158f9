package constvars

// Client-facing messages. These never carry detail that could act as an
// oracle (ownership and signature failures all collapse to the same text).
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientCannotProcessRequest          = "Cannot process the request, please check your input"
	ErrClientNotAuthorized                 = "You are not authorized to perform this action"
	ErrClientNotLoggedIn                   = "You are not logged in, please login first"
	ErrClientInvalidUsernameOrPassword     = "Invalid email or password"
	ErrClientEmailAlreadyExists            = "Email already registered"
	ErrClientSlotNotAvailable              = "Slot not available"
	ErrClientReservationNotFound           = "Reservation not found"
	ErrClientResourceNotFound              = "Resource not found"
	ErrClientResourceNotAvailable          = "Resource is not available for booking"
	ErrClientPaymentAlreadyCompleted       = "Payment already completed for this reservation"
	ErrClientReservationCancelled          = "Cannot process payment for a cancelled reservation"
	ErrClientInvalidPaymentSignature       = "Invalid payment verification data"
	ErrClientPaymentGatewayUnavailable     = "Payment service is temporarily unavailable, please retry"
	ErrClientServerLongRespond             = "Server takes too long to respond, please try again"
	ErrClientWeakPassword                  = "Please enter a stronger password (minimum 8 characters)"
)

// Developer messages, surfaced only outside production.
const (
	ErrDevValidationFailed        = "Request validation failed"
	ErrDevCannotParseJSON         = "Failed to parse JSON request body"
	ErrDevCannotMarshalJSON       = "Failed to marshal value to JSON"
	ErrDevURLParamMissing         = "Missing required URL parameter: %s"
	ErrDevInvalidDateFormat       = "Date must use the YYYY-MM-DD format"
	ErrDevServerDeadlineExceeded  = "Operation deadline exceeded"
	ErrDevServerProcess           = "Unexpected server error"
	ErrDevMissingRequestID        = "Request ID missing from context"
	ErrDevAuthTokenMissing        = "Authorization token missing from request"
	ErrDevAuthTokenInvalid        = "Authorization token invalid or expired"
	ErrDevAuthGenerateToken       = "Failed to generate auth token"
	ErrDevAuthSigningMethod       = "Unexpected JWT signing method"
	ErrDevAuthSessionNotFound     = "Session not found or revoked"
	ErrDevAuthRoleNotAllowed      = "Principal role is not allowed for this route"
	ErrDevAuthNotResourceOwner    = "Principal does not own the target resource"
	ErrDevInvalidCredentials      = "Credentials do not match any user"
	ErrDevEmailAlreadyExists      = "A user document with this email already exists"
	ErrDevFailedToHashPassword    = "Failed to hash password with bcrypt"
	ErrDevDBFailedToFindDocument  = "Failed to execute find query to database"
	ErrDevDBFailedToInsertDocument = "Failed to insert document to database"
	ErrDevDBFailedToUpdateDocument = "Failed to update document in database"
	ErrDevDBFailedToDeleteDocument = "Failed to delete document from database"
	ErrDevDBFailedToIterateDocuments = "Failed to iterate documents from cursor"
	ErrDevDBStringNotObjectID     = "Provided string is not a valid ObjectID"
	ErrDevRedisSetData            = "Failed to set data to redis"
	ErrDevRedisGetData            = "Failed to get data from redis"
	ErrDevRedisDeleteData         = "Failed to delete data from redis"
	ErrDevRedisUnlock             = "Failed to release redis lock"
	ErrDevRabbitMQPublish         = "Failed to publish message to queue: %s"
	ErrDevCreateHTTPRequest       = "Failed to create HTTP request to external service"
	ErrDevSendHTTPRequest         = "Failed to send HTTP request to external service"
	ErrDevSlotAlreadyClaimed      = "Slot claim rejected by unique index (already taken)"
	ErrDevSlotLedgerUnavailable   = "Slot ledger store unreachable, claim failed closed"
	ErrDevReservationNotFound     = "No reservation document for the given id"
	ErrDevReservationNotBooked    = "Reservation is not in a payable state"
	ErrDevPaymentAlreadyCompleted = "Reservation paymentStatus is already completed"
	ErrDevPaymentSignatureMismatch = "Computed HMAC does not match the provided signature"
	ErrDevPaymentOrderMismatch    = "Gateway order id does not match the stored payment order id"
	ErrDevPaymentGatewayOrder     = "Payment gateway order creation failed"
	ErrDevWebhookSignatureMismatch = "Webhook body signature does not match the webhook secret"
	ErrDevWebhookUnknownOrder     = "Webhook order id resolves to no reservation"
)
