package wallet

import "time"

// Balance is the wallet view returned to clients. Available is derived,
// never stored.
type Balance struct {
	WalletBalance float64 `json:"wallet_balance"`
	Holds         float64 `json:"holds"`
	Available     float64 `json:"available_balance"`
}

// GroupPaymentResult reports how a group share was settled.
type GroupPaymentResult struct {
	PaidWithWallet bool   `json:"paidWithWallet"`
	PaymentURL     string `json:"paymentUrl,omitempty"`
	Reference      string `json:"reference"`
}

// Config holds wallet service configuration.
type Config struct {
	// MinDepositMinor is the smallest accepted deposit in minor units.
	MinDepositMinor   int64
	ProcessingTimeout time.Duration
}

// MetricsCollector records wallet operation outcomes.
type MetricsCollector interface {
	RecordTransaction(txType string, amount float64)
	RecordError(operation, errType string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string, float64) {}
func (n *NoopMetricsCollector) RecordError(string, string)        {}
