package usecase

import (
	"context"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
)

// InitiateRequest represents a user's request to start a conversion
type InitiateRequest struct {
	UserID      int64          `json:"userId"`
	Type        string         `json:"type"`
	Asset       string         `json:"asset"`
	Amount      string         `json:"amount"`
	Currency    string         `json:"currency"`
	Beneficiary map[string]any `json:"beneficiary,omitempty"`
}

// TransactionUseCase defines the user-facing transaction operations
type TransactionUseCase interface {
	// Initiate starts a conversion upstream and records it locally
	Initiate(ctx context.Context, req InitiateRequest) (*entity.Transaction, error)

	// Get returns a stored transaction by reference
	Get(ctx context.Context, reference string) (*entity.Transaction, error)

	// ListByUser returns a user's recent transactions
	ListByUser(ctx context.Context, userID int64, limit int) ([]*entity.Transaction, error)
}
