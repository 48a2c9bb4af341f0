package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
)

// SignatureHeader is the header carrying the webhook HMAC.
const SignatureHeader = "x-paystack-signature"

// EventChargeSuccess is the webhook event that credits wallets.
const EventChargeSuccess = "charge.success"

// WebhookEvent is the decoded webhook payload.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Customer struct {
			Email string `json:"email"`
		} `json:"customer"`
		Amount    int64  `json:"amount"`
		Reference string `json:"reference"`
	} `json:"data"`
}

// ValidateSignature checks the HMAC-SHA512 hex digest of the raw body
// against the signature header. The comparison is constant-time.
func ValidateSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the signature for a body. Used by tests and outbound
// webhook simulation.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ParseWebhook decodes a raw webhook body.
func ParseWebhook(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
