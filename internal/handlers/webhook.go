package handlers

import (
	"log"

	"splitbuy/internal/services/paystack"
	"splitbuy/internal/services/wallet"
	"splitbuy/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// WebhookHandler processes gateway callbacks. The gateway retries delivery,
// so every handled request answers 200 regardless of outcome. The only
// exception is a missing webhook secret, which is a server misconfiguration.
type WebhookHandler struct {
	walletService wallet.Service
	secret        string
}

func NewWebhookHandler(walletService wallet.Service, secret string) *WebhookHandler {
	return &WebhookHandler{walletService: walletService, secret: secret}
}

// HandlePaystackWebhook validates the HMAC signature over the raw body and
// credits the wallet on charge.success. Duplicate deliveries are absorbed
// by the reference uniqueness guard in the ledger.
func (h *WebhookHandler) HandlePaystackWebhook(c *fiber.Ctx) error {
	if h.secret == "" {
		log.Println("Webhook secret not configured")
		return utils.InternalError(c, "Server configuration error")
	}

	body := c.Body()
	signature := c.Get(paystack.SignatureHeader)

	if !paystack.ValidateSignature(h.secret, body, signature) {
		log.Printf("Webhook signature mismatch from %s", c.IP())
		return utils.Success(c, fiber.Map{"received": true})
	}

	event, err := paystack.ParseWebhook(body)
	if err != nil {
		log.Printf("Webhook body parse error: %v", err)
		return utils.Success(c, fiber.Map{"received": true})
	}

	if event.Event == paystack.EventChargeSuccess {
		credited, err := h.walletService.HandleChargeSuccess(
			c.Context(),
			event.Data.Customer.Email,
			event.Data.Amount,
			event.Data.Reference,
		)
		if err != nil {
			log.Printf("Webhook credit failed for reference %s: %v", event.Data.Reference, err)
		} else if !credited {
			log.Printf("Webhook reference %s already processed", event.Data.Reference)
		}
	}

	return utils.Success(c, fiber.Map{"received": true})
}
