package gateway

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	errs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
)

// Destination describes what the user receives at the end of a conversion
type Destination struct {
	Amount   decimal.Decimal
	Currency string
}

// Deposit carries offramp deposit instructions
type Deposit struct {
	Address string
}

// StatusPayload is the upstream view of a transaction.
// Raw keeps the undecoded JSON object so hash fields can be found under any known key.
type StatusPayload struct {
	Reference   string
	Status      string
	Type        string
	Destination Destination
	Rate        *decimal.Decimal
	Deposit     Deposit
	Message     string
	Raw         map[string]any
}

// InitiateRequest starts an onramp or offramp conversion upstream
type InitiateRequest struct {
	UserID      int64
	Type        string
	Asset       string
	Amount      decimal.Decimal
	Currency    string
	Beneficiary map[string]any
}

// InitiateResponse is the upstream acknowledgement of a new conversion
type InitiateResponse struct {
	Reference string
	Status    string
	Deposit   Deposit
	Raw       map[string]any
}

// RampClient abstracts the third-party exchange ("Switch") API
type RampClient interface {
	// Initiate creates a conversion upstream and returns its reference
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error)

	// GetStatus fetches the current upstream status of a reference
	GetStatus(ctx context.Context, reference string) (*StatusPayload, error)

	// ConfirmDeposit tells the upstream which on-chain transaction funded an offramp
	ConfirmDeposit(ctx context.Context, reference, hash string) (*StatusPayload, error)
}

// UpstreamError is returned for every failed Switch API call
type UpstreamError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("switch %s failed", e.Op)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s with status %d", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying transport error, if any
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is makes every UpstreamError match errs.ErrUpstream
func (e *UpstreamError) Is(target error) bool {
	return target == errs.ErrUpstream
}

// LogFields returns a map of fields for structured logging
func (e *UpstreamError) LogFields() map[string]any {
	fields := map[string]any{
		"error_type":  "upstream_error",
		"operation":   e.Op,
		"status_code": e.StatusCode,
		"message":     e.Message,
	}
	if e.Err != nil {
		fields["error"] = e.Err.Error()
	}
	return fields
}
