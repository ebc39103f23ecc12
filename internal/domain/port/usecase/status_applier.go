package usecase

import (
	"context"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/gateway"
)

// ApplyStatusRequest is a status observation from any source (webhook, poll, chain scan, admin)
type ApplyStatusRequest struct {
	Reference string
	Status    entity.TransactionStatus
	Hash      string
	Message   string
	Extra     *gateway.NotificationExtra
	Source    string
}

// ApplyStatusResult reports what ApplyStatus did
type ApplyStatusResult struct {
	Transaction *entity.Transaction
	Changed     bool
	Notified    bool
	// AlreadyTerminal is set when the stored transaction was final and the request was ignored
	AlreadyTerminal bool
}

// StatusApplier is the single entry point through which every status change flows
type StatusApplier interface {
	ApplyStatus(ctx context.Context, req ApplyStatusRequest) (*ApplyStatusResult, error)
}
