package reconcile

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

// StatusService applies status observations to the store and notifies users of real transitions.
// Webhooks, the recovery scheduler and the admin API all go through it.
type StatusService struct {
	repo     persistence.TransactionRepository
	notifier gateway.Notifier
	logger   coreport.Logger
}

// NewStatusService creates a new StatusService
func NewStatusService(
	repo persistence.TransactionRepository,
	notifier gateway.Notifier,
	logger coreport.Logger,
) *StatusService {
	return &StatusService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

var _ usecase.StatusApplier = (*StatusService)(nil)

// ApplyStatus persists req.Status for req.Reference and notifies the owner when the
// stored status actually changed to a notifiable one. Terminal transactions are left
// untouched. A failed notification is logged and never undoes the persisted status.
func (s *StatusService) ApplyStatus(ctx context.Context, req usecase.ApplyStatusRequest) (*usecase.ApplyStatusResult, error) {
	reference := strings.TrimSpace(req.Reference)
	if reference == "" {
		return nil, errs.ErrInvalidReference
	}
	status := entity.NormalizeStatus(string(req.Status))
	if status == "" {
		return nil, errs.ErrInvalidStatus
	}
	hash := strings.TrimSpace(req.Hash)

	log := s.logger.With(map[string]any{
		"reference": reference,
		"status":    string(status),
		"source":    req.Source,
	})

	tx, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}

	if tx.IsTerminal() {
		log.Debug("Ignoring status for terminal transaction", map[string]any{
			"stored_status": string(tx.Status),
		})
		return &usecase.ApplyStatusResult{Transaction: tx, AlreadyTerminal: true}, nil
	}

	changed, err := s.repo.UpdateStatus(ctx, reference, status, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to persist status: %w", err)
	}

	if changed {
		tx.Status = status
	}
	if hash != "" && tx.Status == status {
		tx.Hash = hash
	}

	result := &usecase.ApplyStatusResult{Transaction: tx, Changed: changed}
	if !changed {
		log.Debug("Status unchanged, skipping notification", nil)
		return result, nil
	}

	log.Info("Transaction status updated", map[string]any{
		"user_id": tx.UserID,
		"hash":    tx.Hash,
	})

	if !status.IsNotifiable() {
		return result, nil
	}

	notification := gateway.Notification{
		UserID:    tx.UserID,
		Reference: tx.Reference,
		Status:    status,
		Type:      notificationType(tx, req.Extra),
		Asset:     tx.Asset,
		Amount:    tx.Amount,
		Hash:      tx.Hash,
		Message:   req.Message,
		Extra:     req.Extra,
	}
	if err := s.notifier.Notify(ctx, notification); err != nil {
		nerr := &errs.NotificationError{UserID: tx.UserID, Reference: tx.Reference, Status: string(status), Err: err}
		log.Warn("Failed to notify user", nerr.LogFields())
		return result, nil
	}

	result.Notified = true
	return result, nil
}

// notificationType prefers the stored direction and falls back to the upstream one
func notificationType(tx *entity.Transaction, extra *gateway.NotificationExtra) entity.TransactionType {
	if tx.Type != "" || extra == nil {
		return tx.Type
	}
	return entity.TransactionType(strings.ToUpper(strings.TrimSpace(extra.Type)))
}
