package requests

// VerifyPayment carries the client-side checkout result handed back by the
// gateway, matching the razorpay handler response field names.
type VerifyPayment struct {
	GatewayOrderID   string `json:"razorpay_order_id" validate:"required"`
	GatewayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature        string `json:"razorpay_signature" validate:"required"`
}

// GatewayCreateOrder is the outbound order-creation call. Amount is in
// currency minor units; Receipt carries the reservation id so webhook events
// can be traced back even without the stored order id.
type GatewayCreateOrder struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// GatewayWebhookEvent is the asynchronous event envelope pushed by the
// gateway. Only payment.captured is acted upon.
type GatewayWebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}
