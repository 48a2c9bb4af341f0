package handlers

import (
	"errors"
	"log"

	"splitbuy/internal/services/wallet"
	"splitbuy/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// minDepositAmount is the gateway's floor for a deposit, in the request
// currency unit.
const minDepositAmount = 100

// PaymentHandler covers the unauthenticated deposit flow and group share
// payments.
type PaymentHandler struct {
	walletService wallet.Service
}

func NewPaymentHandler(walletService wallet.Service) *PaymentHandler {
	return &PaymentHandler{walletService: walletService}
}

// Deposit initiates a hosted payment session for a wallet top-up.
func (h *PaymentHandler) Deposit(c *fiber.Ctx) error {
	var input struct {
		Email  string  `json:"email"`
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid parameters")
	}
	if input.Email == "" || input.Amount < minDepositAmount {
		return utils.BadRequest(c, "Invalid parameters")
	}

	amountMinor := int64(input.Amount * wallet.MinorUnitsPerMajor)
	authorizationURL, err := h.walletService.Deposit(c.Context(), input.Email, amountMinor)
	if err != nil {
		if errors.Is(err, wallet.ErrDepositBelowMinimum) {
			return utils.BadRequest(c, "Invalid parameters")
		}
		log.Printf("Deposit initiation failed: %v", err)
		return utils.InternalError(c, "Failed to initiate payment")
	}

	return utils.Success(c, fiber.Map{"authorization_url": authorizationURL})
}

// VerifyPayment polls the gateway for the status of a payment reference.
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	reference := c.Query("reference")
	if reference == "" {
		return utils.BadRequest(c, "Missing reference")
	}

	ok, err := h.walletService.VerifyDeposit(c.Context(), reference)
	if err != nil {
		log.Printf("Payment verification failed for %s: %v", reference, err)
		return utils.InternalError(c, "Verification failed")
	}
	if !ok {
		return utils.BadRequest(c, "Payment not successful")
	}

	return utils.Success(c, fiber.Map{"status": "success"})
}

// GroupPayment settles a member's share from the wallet when the available
// balance covers it, otherwise hands back a hosted payment URL.
func (h *PaymentHandler) GroupPayment(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		GroupID uint    `json:"group_id"`
		Amount  float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.GroupID == 0 || input.Amount <= 0 {
		return utils.BadRequest(c, "Invalid parameters")
	}

	result, err := h.walletService.PayGroupShare(c.Context(), claims.UserID, input.GroupID, input.Amount)
	if err != nil {
		if errors.Is(err, wallet.ErrInvalidAmount) {
			return utils.BadRequest(c, "Invalid parameters")
		}
		log.Printf("Group payment failed for user %d group %d: %v", claims.UserID, input.GroupID, err)
		return utils.InternalError(c, "Payment failed")
	}

	if result.PaidWithWallet {
		return utils.Success(c, fiber.Map{
			"paidWithWallet": true,
			"reference":      result.Reference,
		})
	}
	return utils.Success(c, fiber.Map{
		"paidWithWallet": false,
		"paymentUrl":     result.PaymentURL,
		"reference":      result.Reference,
	})
}
