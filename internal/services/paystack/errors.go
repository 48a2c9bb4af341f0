package paystack

import "errors"

// Adapter errors
var (
	ErrGatewayUnavailable = errors.New("payment gateway secret key not configured")
	ErrGatewayError       = errors.New("payment gateway error")
)
