package chapa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrRejected is returned when the gateway answers the request but declines
// it (bad payload, unknown transaction, declined charge). Transport-level
// failures are returned as-is.
var ErrRejected = errors.New("transaction rejected by payment gateway")

// Client talks to a Chapa-compatible payment gateway over its REST API.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient creates a new gateway client. The timeout applies to every call.
func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// InitializeRequest is the payload for starting a hosted checkout
type InitializeRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url"`
	ReturnURL   string `json:"return_url"`
}

// CheckoutSession is the usable part of a successful initialize response
type CheckoutSession struct {
	CheckoutURL string
	Ref         string
}

// VerifyResult is the settled view of a transaction
type VerifyResult struct {
	TxRef  string
	Status string
	Amount string
}

// Transaction states as the caller sees them
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeData struct {
	CheckoutURL string `json:"checkout_url"`
	Link        string `json:"link"`
	Reference   string `json:"reference"`
	TxRef       string `json:"tx_ref"`
}

type verifyData struct {
	TxRef  string `json:"tx_ref"`
	Status string `json:"status"`
	Amount string `json:"amount"`
}

// InitializeTransaction creates a hosted checkout session and returns its URL
func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (*CheckoutSession, error) {
	if req.TxRef == "" {
		return nil, fmt.Errorf("tx_ref is required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal initialize request: %w", err)
	}

	url := c.baseURL + "/transaction/initialize"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build initialize request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("initialize request failed: %w", err)
	}
	defer resp.Body.Close()

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return nil, fmt.Errorf("failed to decode initialize response: %w", err)
	}

	if resp.StatusCode >= 400 || !strings.EqualFold(api.Status, "success") {
		return nil, fmt.Errorf("%w: %s", ErrRejected, api.Message)
	}

	var data initializeData
	if err := json.Unmarshal(api.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to decode checkout data: %w", err)
	}

	// Gateways disagree on field names for the hosted checkout link.
	checkoutURL := data.CheckoutURL
	if checkoutURL == "" {
		checkoutURL = data.Link
	}
	if checkoutURL == "" {
		return nil, fmt.Errorf("%w: no checkout URL in response", ErrRejected)
	}

	ref := data.Reference
	if ref == "" {
		ref = data.TxRef
	}
	if ref == "" {
		ref = req.TxRef
	}

	return &CheckoutSession{
		CheckoutURL: checkoutURL,
		Ref:         ref,
	}, nil
}

// VerifyTransaction asks the gateway for the final state of a transaction
func (c *Client) VerifyTransaction(ctx context.Context, txRef string) (*VerifyResult, error) {
	if txRef == "" {
		return nil, fmt.Errorf("tx_ref is required")
	}

	url := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, txRef)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}

	if resp.StatusCode >= 400 || !strings.EqualFold(api.Status, "success") {
		return nil, fmt.Errorf("%w: %s", ErrRejected, api.Message)
	}

	var data verifyData
	if err := json.Unmarshal(api.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to decode verify data: %w", err)
	}

	result := &VerifyResult{
		TxRef:  data.TxRef,
		Status: normalizeStatus(data.Status),
		Amount: data.Amount,
	}
	if result.TxRef == "" {
		result.TxRef = txRef
	}

	return result, nil
}

// normalizeStatus maps gateway wording onto the three states callers handle
func normalizeStatus(status string) string {
	switch strings.ToLower(status) {
	case "success", "completed", "paid":
		return StatusSuccess
	case "failed", "cancelled", "canceled", "declined", "error":
		return StatusFailed
	default:
		return StatusPending
	}
}
