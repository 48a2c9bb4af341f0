package models

import (
	"time"
)

// Transaction types
const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeEscrow     = "escrow"
	TransactionTypeRefund     = "refund"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusRefunded  = "refunded"
)

// Transaction records a wallet-affecting operation. ReferenceID carries the
// external payment reference and is unique so gateway retries cannot record
// the same settlement twice.
type Transaction struct {
	ID          uint    `gorm:"primarykey"`
	UserID      uint    `gorm:"not null;index"`
	GroupID     *uint   `gorm:"index"`
	Type        string  `gorm:"not null"`
	Amount      float64 `gorm:"not null"`
	Status      string  `gorm:"not null;default:'pending'"`
	ReferenceID string  `gorm:"uniqueIndex;not null"`
	Description string
	Metadata    JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WalletTransaction is the webhook ledger. The unique Reference index is the
// idempotency guard: a row's existence means that gateway charge has already
// been credited.
type WalletTransaction struct {
	ID        uint    `gorm:"primarykey"`
	Reference string  `gorm:"uniqueIndex;not null"`
	Email     string  `gorm:"not null;index"`
	Amount    float64 `gorm:"not null"`
	CreatedAt time.Time
}
