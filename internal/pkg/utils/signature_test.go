package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func computeWebhookSignature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	secret := "test-key-secret"
	orderID := "order_N8FjJ2ZIXBn0pW"
	paymentID := "pay_N8FkVJq0QacFqM"

	signature := ComputePaymentSignature(orderID, paymentID, secret)

	assert.True(t, VerifyPaymentSignature(orderID, paymentID, signature, secret))
	assert.False(t, VerifyPaymentSignature(orderID, paymentID, signature, "wrong-secret"))
	assert.False(t, VerifyPaymentSignature(orderID, "pay_other", signature, secret))
	assert.False(t, VerifyPaymentSignature("order_other", paymentID, signature, secret))
	assert.False(t, VerifyPaymentSignature(orderID, paymentID, signature+"00", secret))
	assert.False(t, VerifyPaymentSignature(orderID, paymentID, "", secret))
}

func TestComputePaymentSignatureJoinsWithPipe(t *testing.T) {
	secret := "s"
	// The signed message is orderID|paymentID; shifting the boundary must
	// change the signature.
	first := ComputePaymentSignature("ab", "c", secret)
	second := ComputePaymentSignature("a", "bc", secret)
	assert.NotEqual(t, first, second)
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	webhookSecret := "test-webhook-secret"

	signature := ComputePaymentSignature("", "", "")
	assert.False(t, VerifyWebhookSignature(body, signature, webhookSecret))

	valid := computeWebhookSignature(body, webhookSecret)
	assert.True(t, VerifyWebhookSignature(body, valid, webhookSecret))
	assert.False(t, VerifyWebhookSignature([]byte(`{"event":"tampered"}`), valid, webhookSecret))
	assert.False(t, VerifyWebhookSignature(body, valid, "other-secret"))
}
