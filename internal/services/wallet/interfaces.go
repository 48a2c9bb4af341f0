package wallet

import (
	"context"

	"splitbuy/internal/models"
	"splitbuy/internal/services/paystack"
)

// Service is the wallet ledger interface.
type Service interface {
	// Balance operations
	GetBalance(ctx context.Context, userID uint) (*Balance, error)

	// Deposit flow
	Deposit(ctx context.Context, email string, amountMinor int64) (string, error)
	FundWallet(ctx context.Context, userID uint, amount float64) (string, error)
	VerifyDeposit(ctx context.Context, reference string) (bool, error)

	// Webhook-driven crediting
	HandleChargeSuccess(ctx context.Context, email string, amountMinor int64, reference string) (bool, error)

	// Group escrow
	PayGroupShare(ctx context.Context, userID, groupID uint, amount float64) (*GroupPaymentResult, error)

	// History
	GetTransactionHistory(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error)
}

// Gateway is the slice of the payment gateway adapter the ledger needs.
type Gateway interface {
	InitializePayment(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeResponse, error)
	VerifyPayment(ctx context.Context, reference string) (bool, error)
}
