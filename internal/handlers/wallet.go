package handlers

import (
	"splitbuy/internal/services/wallet"
	"splitbuy/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// GetBalance returns the caller's wallet balance with holds and the derived
// available amount.
func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	balance, err := h.walletService.GetBalance(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to get wallet")
	}

	return utils.Success(c, fiber.Map{"wallet": balance})
}

// FundWallet starts an authenticated top-up and records a pending deposit.
func (h *WalletHandler) FundWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.Amount <= 0 {
		return utils.BadRequest(c, "Amount must be greater than 0")
	}

	paymentURL, err := h.walletService.FundWallet(c.Context(), claims.UserID, input.Amount)
	if err != nil {
		return utils.InternalError(c, "Failed to initiate payment")
	}

	return utils.Success(c, fiber.Map{"paymentUrl": paymentURL})
}

// GetTransactionHistory lists the caller's ledger entries, newest first.
func (h *WalletHandler) GetTransactionHistory(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	limit, offset := pagination(c)

	transactions, err := h.walletService.GetTransactionHistory(c.Context(), claims.UserID, limit, offset)
	if err != nil {
		return utils.InternalError(c, "Failed to get transactions")
	}

	return utils.Success(c, fiber.Map{
		"transactions": transactions,
		"limit":        limit,
		"offset":       offset,
	})
}
