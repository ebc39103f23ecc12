package dto

import (
	"time"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
)

// InitiateTransactionRequest represents the API request for starting a conversion
type InitiateTransactionRequest struct {
	Type        string         `json:"type" binding:"required,oneof=onramp offramp ONRAMP OFFRAMP"`
	Asset       string         `json:"asset" binding:"required"`
	Amount      string         `json:"amount" binding:"required"`
	Currency    string         `json:"currency"`
	Beneficiary map[string]any `json:"beneficiary,omitempty"`
}

// TransactionResponse represents a stored transaction
type TransactionResponse struct {
	Reference      string    `json:"reference"`
	UserID         int64     `json:"userId"`
	Type           string    `json:"type"`
	Asset          string    `json:"asset"`
	Amount         string    `json:"amount"`
	Status         string    `json:"status"`
	Hash           string    `json:"hash,omitempty"`
	DepositAddress string    `json:"depositAddress,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TransactionListResponse represents a page of a user's history
type TransactionListResponse struct {
	UserID       int64                 `json:"userId"`
	Transactions []TransactionResponse `json:"transactions"`
}

// CancelTransactionRequest carries an optional reason shown to the user
type CancelTransactionRequest struct {
	Reason string `json:"reason"`
}

// CancelTransactionResponse reports the outcome of an admin cancellation
type CancelTransactionResponse struct {
	Reference       string `json:"reference"`
	Status          string `json:"status"`
	Changed         bool   `json:"changed"`
	AlreadyTerminal bool   `json:"alreadyTerminal"`
}

// FromTransaction maps a domain transaction onto its API representation
func FromTransaction(tx *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		Reference:      tx.Reference,
		UserID:         tx.UserID,
		Type:           string(tx.Type),
		Asset:          tx.Asset.String(),
		Amount:         tx.Amount.String(),
		Status:         string(tx.Status),
		Hash:           tx.Hash,
		DepositAddress: tx.DepositAddress,
		CreatedAt:      tx.CreatedAt.UTC(),
		UpdatedAt:      tx.UpdatedAt.UTC(),
	}
}
