package wallet

import "errors"

// Service errors
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrDepositBelowMinimum = errors.New("deposit below minimum amount")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrTransactionFailed   = errors.New("transaction failed")
)
