package constvars

const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusAccepted            = 202
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500
	StatusGatewayTimeout      = 504
	StatusServiceUnavailable  = 503
)

const (
	HeaderContentType      = "Content-Type"
	HeaderAuthorization    = "Authorization"
	HeaderXRequestID       = "X-Request-ID"
	HeaderRetryAfter       = "Retry-After"
	HeaderGatewaySignature = "X-Razorpay-Signature"

	MIMEApplicationJSON = "application/json"

	MethodPost = "POST"
	MethodGet  = "GET"
)
