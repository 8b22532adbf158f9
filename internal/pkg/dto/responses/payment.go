package responses

// GatewayOrder is the order descriptor returned by the payment gateway and
// relayed to the client to drive checkout.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// PaymentOrder is what the create-order endpoint answers: the gateway order
// plus the public key id the client-side checkout needs.
type PaymentOrder struct {
	ReservationID string       `json:"reservation_id"`
	Order         GatewayOrder `json:"order"`
	KeyID         string       `json:"key_id"`
}
