package transaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	errs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/usecase"
)

// History page sizes
const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 50
)

// Service is the user-facing entry point for starting and looking up conversions
type Service struct {
	repo         persistence.TransactionRepository
	ramp         gateway.RampClient
	validator    *TransactionValidator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	repo persistence.TransactionRepository,
	ramp gateway.RampClient,
	validator *TransactionValidator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	if validator == nil {
		validator = NewTransactionValidator()
	}
	return &Service{
		repo:         repo,
		ramp:         ramp,
		validator:    validator,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

var _ usecase.TransactionUseCase = (*Service)(nil)

// Initiate validates the request, creates the conversion upstream and stores it with
// its type-derived initial status. The upstream reference becomes the local key.
func (s *Service) Initiate(ctx context.Context, req usecase.InitiateRequest) (*entity.Transaction, error) {
	if err := s.validator.ValidateInitiate(req); err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}

	amount, _ := entity.ParseAmount(req.Amount)
	txType, _ := entity.ParseTransactionType(req.Type)

	resp, err := s.ramp.Initiate(ctx, gateway.InitiateRequest{
		UserID:      req.UserID,
		Type:        string(txType),
		Asset:       strings.ToLower(strings.TrimSpace(req.Asset)),
		Amount:      amount,
		Currency:    req.Currency,
		Beneficiary: req.Beneficiary,
	})
	if err != nil {
		s.logger.Error("Failed to initiate transaction upstream", map[string]any{
			"user_id": req.UserID,
			"type":    string(txType),
			"asset":   req.Asset,
			"error":   err.Error(),
		})
		return nil, err
	}

	tx, err := entity.NewTransaction(
		req.UserID,
		resp.Reference,
		string(txType),
		req.Asset,
		req.Amount,
		s.timeProvider,
		entity.WithDepositAddress(resp.Deposit.Address),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream acknowledgement: %w", err)
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		if errs.IsDuplicateReferenceError(err) {
			return nil, errs.NewDuplicateReferenceError(tx.Reference, tx.UserID)
		}
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	s.logger.Info("Transaction initiated", map[string]any{
		"reference": tx.Reference,
		"user_id":   tx.UserID,
		"type":      string(tx.Type),
		"asset":     tx.Asset.String(),
		"status":    string(tx.Status),
	})
	return tx, nil
}

// Get returns a stored transaction by reference
func (s *Service) Get(ctx context.Context, reference string) (*entity.Transaction, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, errs.ErrInvalidReference
	}
	return s.repo.GetByReference(ctx, reference)
}

// ListByUser returns a user's most recent transactions
func (s *Service) ListByUser(ctx context.Context, userID int64, limit int) ([]*entity.Transaction, error) {
	if userID <= 0 {
		return nil, errs.ErrInvalidUserID
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}
