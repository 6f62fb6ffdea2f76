package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACVerifier checks gateway signatures. Payment callbacks sign
// "<order_id>|<payment_id>" with the key secret; webhooks sign the raw
// request body with a dedicated webhook secret. Comparison is constant-time:
// a plain string inequality on the hex digests would leak a timing
// side-channel.
type HMACVerifier struct {
	keySecret     []byte
	webhookSecret []byte
}

func NewHMACVerifier(keySecret, webhookSecret string) *HMACVerifier {
	return &HMACVerifier{
		keySecret:     []byte(keySecret),
		webhookSecret: []byte(webhookSecret),
	}
}

func (v *HMACVerifier) VerifyPayment(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := hexDigest(v.keySecret, []byte(orderID+"|"+paymentID))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (v *HMACVerifier) VerifyWebhook(body []byte, signature string) bool {
	if len(body) == 0 || signature == "" {
		return false
	}
	expected := hexDigest(v.webhookSecret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func hexDigest(secret, message []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignPayment produces the signature the gateway would send for a payment
// callback. Exported for tests and local checkout emulation.
func (v *HMACVerifier) SignPayment(orderID, paymentID string) string {
	return hexDigest(v.keySecret, []byte(orderID+"|"+paymentID))
}

// SignWebhook produces the signature the gateway would send for a webhook body.
func (v *HMACVerifier) SignWebhook(body []byte) string {
	return hexDigest(v.webhookSecret, body)
}
