package constvars

const (
	LoggingRequestIDKey     = "request_id"
	LoggingMethodKey        = "method"
	LoggingEndpointKey      = "endpoint"
	LoggingRemoteAddrKey    = "remote_addr"
	LoggingUserAgentKey     = "user_agent"
	LoggingQueryKey         = "query"
	LoggingStatusCodeKey    = "status_code"
	LoggingDurationKey      = "duration"
	LoggingSuccessKey       = "success"
	LoggingErrorTypeKey     = "error_type"
	LoggingPrincipalIDKey   = "principal_id"
	LoggingRoleKey          = "role"
	LoggingReservationIDKey = "reservation_id"
	LoggingResourceIDKey    = "resource_id"
	LoggingSlotDateKey      = "slot_date"
	LoggingSlotTimeKey      = "slot_time"
	LoggingOrderIDKey       = "gateway_order_id"
	LoggingPaymentIDKey     = "gateway_payment_id"
	LoggingRedisKey         = "redis_key"
	LoggingLockValueKey     = "lock_value"
	LoggingEventKey         = "event"
)
