package wallet

import "time"

// Default configuration values
const (
	// DefaultMinDepositMinor matches the gateway's smallest chargeable
	// amount (minor units).
	DefaultMinDepositMinor = 100
	DefaultTimeout         = 30 * time.Second

	// MinorUnitsPerMajor converts gateway amounts (kobo/cents) to wallet
	// amounts.
	MinorUnitsPerMajor = 100
)
