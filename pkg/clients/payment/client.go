// Package payment is a thin HTTP client for the external payment gateway.
package payment

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vortexcart/api/internal/config"
)

// Client exposes the gateway operations used by the application.
type Client interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)
	Refund(ctx context.Context, transactionID string, amount float64) (*RefundResponse, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a payment gateway client using the provided configuration values.
func NewClient(cfg config.PaymentConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient}
}

// ChargeRequest describes one charge attempt.
type ChargeRequest struct {
	Amount        float64        `json:"amount"`
	Currency      string         `json:"currency"`
	Method        string         `json:"method"`
	Reference     string         `json:"reference"`
	PaymentDetail map[string]any `json:"payment_detail,omitempty"`
}

// ChargeResponse mirrors the gateway's successful charge payload.
type ChargeResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// RefundResponse mirrors the gateway's refund payload.
type RefundResponse struct {
	RefundID string `json:"refund_id"`
	Status   string `json:"status"`
}

// apiError represents a gateway error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *APIClient) Charge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	result := new(ChargeResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(result).
		SetError(apiErr).
		Post("/v1/charges")
	if err != nil {
		return nil, fmt.Errorf("charge request: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("payment gateway error: status=%d, code=%s, message=%s",
			resp.StatusCode(), apiErr.Error.Code, apiErr.Error.Message)
	}

	return result, nil
}

func (c *APIClient) Refund(ctx context.Context, transactionID string, amount float64) (*RefundResponse, error) {
	result := new(RefundResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{"transaction_id": transactionID, "amount": amount}).
		SetResult(result).
		SetError(apiErr).
		Post("/v1/refunds")
	if err != nil {
		return nil, fmt.Errorf("refund request: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("payment gateway error: status=%d, code=%s, message=%s",
			resp.StatusCode(), apiErr.Error.Code, apiErr.Error.Message)
	}

	return result, nil
}
