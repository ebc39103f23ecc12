package switchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/gateway"
)

const (
	maxResponseBytes = 1 << 20
	apiKeyHeader     = "x-service-key"
)

// Config holds the Switch API connection settings
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Option customizes the client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Client implements gateway.RampClient over the Switch REST API
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     coreport.Logger
}

// NewClient creates a new Switch API client
func NewClient(cfg Config, logger coreport.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid switch base URL %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(map[string]any{"component": "switch_client"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type initiateBody struct {
	UserID      int64          `json:"user_id"`
	Asset       string         `json:"asset"`
	Amount      string         `json:"amount"`
	Currency    string         `json:"currency,omitempty"`
	Beneficiary map[string]any `json:"beneficiary,omitempty"`
}

// Initiate creates an onramp or offramp conversion upstream
func (c *Client) Initiate(ctx context.Context, req gateway.InitiateRequest) (*gateway.InitiateResponse, error) {
	const op = "initiate"

	path := "/" + strings.ToLower(req.Type) + "/initiate"
	obj, message, err := c.do(ctx, op, http.MethodPost, path, nil, initiateBody{
		UserID:      req.UserID,
		Asset:       req.Asset,
		Amount:      req.Amount.String(),
		Currency:    req.Currency,
		Beneficiary: req.Beneficiary,
	})
	if err != nil {
		return nil, err
	}

	resp := &gateway.InitiateResponse{
		Reference: stringField(obj, "reference"),
		Status:    stringField(obj, "status"),
		Deposit:   depositField(obj),
		Raw:       obj,
	}
	if resp.Reference == "" {
		return nil, &gateway.UpstreamError{Op: op, StatusCode: http.StatusOK, Message: firstNonEmpty(message, "response carries no reference")}
	}
	return resp, nil
}

// GetStatus fetches the current upstream status of a reference
func (c *Client) GetStatus(ctx context.Context, reference string) (*gateway.StatusPayload, error) {
	obj, message, err := c.do(ctx, "status", http.MethodGet, "/status", url.Values{"reference": {reference}}, nil)
	if err != nil {
		return nil, err
	}
	p := toStatusPayload(obj, message)
	if p.Reference == "" {
		p.Reference = reference
	}
	return p, nil
}

// ConfirmDeposit reports the on-chain transaction that funded an offramp
func (c *Client) ConfirmDeposit(ctx context.Context, reference, hash string) (*gateway.StatusPayload, error) {
	obj, message, err := c.do(ctx, "confirm_deposit", http.MethodPost, "/offramp/confirm", nil, map[string]string{
		"reference": reference,
		"hash":      hash,
	})
	if err != nil {
		return nil, err
	}
	p := toStatusPayload(obj, message)
	if p.Reference == "" {
		p.Reference = reference
	}
	return p, nil
}

func (c *Client) do(
	ctx context.Context,
	op, method, path string,
	query url.Values,
	body any,
) (map[string]any, string, error) {
	endpoint := *c.baseURL
	endpoint.Path = c.baseURL.Path + path
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, "", &gateway.UpstreamError{Op: op, Message: "cannot encode request", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, "", &gateway.UpstreamError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(ctxErr, err)
		}
		return nil, "", &gateway.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, "", &gateway.UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug("Switch API call", map[string]any{
		"operation":   op,
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(started).Milliseconds(),
	})

	obj, env, decodeErr := decodeObject(raw)
	message := env.Message

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if message == "" {
			message = strings.TrimSpace(string(raw))
			if len(message) > 200 {
				message = message[:200]
			}
		}
		return nil, message, &gateway.UpstreamError{Op: op, StatusCode: resp.StatusCode, Message: message}
	}
	if decodeErr != nil {
		return nil, "", &gateway.UpstreamError{Op: op, StatusCode: resp.StatusCode, Message: "invalid response body", Err: decodeErr}
	}
	if env.rejected() {
		return nil, message, &gateway.UpstreamError{Op: op, StatusCode: resp.StatusCode, Message: firstNonEmpty(message, "request rejected")}
	}

	return obj, message, nil
}
