// Package paystack is the payment gateway adapter: hosted payment session
// initiation, transaction verification by reference, and webhook signature
// validation. All outbound calls carry a bounded timeout and honor context
// cancellation; no retry is attempted, the gateway redelivers.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.paystack.co"
	// RequestTimeout bounds every gateway call.
	RequestTimeout = 3 * time.Second
)

// Client talks to the gateway's REST API.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a gateway client. An empty secret key is tolerated here
// and rejected per call, so a misconfigured deploy fails loudly on use.
func NewClient(secretKey string) *Client {
	return &Client{
		secretKey:  secretKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: RequestTimeout},
	}
}

// NewClientWithBaseURL is used by tests to point at a stub gateway.
func NewClientWithBaseURL(secretKey, baseURL string) *Client {
	c := NewClient(secretKey)
	c.baseURL = baseURL
	return c
}

// InitializeRequest starts a hosted payment session. Amount is in minor
// units (kobo / cents).
type InitializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference,omitempty"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// InitializeResponse carries the redirect URL for the hosted session.
type InitializeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type initializeEnvelope struct {
	Status  bool               `json:"status"`
	Message string             `json:"message"`
	Data    InitializeResponse `json:"data"`
}

type verifyEnvelope struct {
	Status bool `json:"status"`
	Data   struct {
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Reference string `json:"reference"`
	} `json:"data"`
}

// InitializePayment calls the gateway's initialize endpoint and returns the
// authorization URL for redirect.
func (c *Client) InitializePayment(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	if c.secretKey == "" {
		return nil, ErrGatewayUnavailable
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode initialize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: initialize returned %d", ErrGatewayError, resp.StatusCode)
	}

	var envelope initializeEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: bad initialize response: %v", ErrGatewayError, err)
	}
	if !envelope.Status {
		return nil, fmt.Errorf("%w: %s", ErrGatewayError, envelope.Message)
	}
	return &envelope.Data, nil
}

// VerifyPayment polls the gateway's verify endpoint and reports whether the
// charge for reference succeeded.
func (c *Client) VerifyPayment(ctx context.Context, reference string) (bool, error) {
	if c.secretKey == "" {
		return false, ErrGatewayUnavailable
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return false, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrGatewayError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("%w: verify returned %d", ErrGatewayError, resp.StatusCode)
	}

	var envelope verifyEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&envelope); err != nil {
		return false, fmt.Errorf("%w: bad verify response: %v", ErrGatewayError, err)
	}
	return envelope.Status && envelope.Data.Status == "success", nil
}
