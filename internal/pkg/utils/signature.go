package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ComputePaymentSignature reproduces the gateway's per-payment signature:
// hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
func ComputePaymentSignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature compares the provided signature against the
// recomputed one in constant time.
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	expected := ComputePaymentSignature(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the gateway-level signature carried in the
// webhook header against the raw request body, keyed by the webhook secret
// (a different secret from the per-payment one).
func VerifyWebhookSignature(rawBody []byte, signature, webhookSecret string) bool {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
