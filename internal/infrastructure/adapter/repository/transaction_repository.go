package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	errs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/model"
)

// TransactionRepository implements persistence.TransactionRepository using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	timeProvider    coreport.TimeProvider
	errorClassifier *ErrorClassifier
	errorMapper     *database.ErrorMapper
	metrics         *database.MetricsCollector
	retryConfig     database.RetryConfig
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		timeProvider:    timeProvider,
		errorClassifier: NewErrorClassifier(),
		errorMapper:     database.NewErrorMapper(),
		metrics:         database.NewMetricsCollector(logger, timeProvider),
		retryConfig:     database.DefaultRetryConfig(),
	}
}

// WithRetryConfig overrides the transient-error retry policy
func (r *TransactionRepository) WithRetryConfig(cfg database.RetryConfig) *TransactionRepository {
	r.retryConfig = cfg
	return r
}

// QueryStats returns per-operation timings of the instrumented store queries
func (r *TransactionRepository) QueryStats() map[string]database.OperationStats {
	return r.metrics.Snapshot()
}

// entityToModel converts a transaction entity to a database model
func (r *TransactionRepository) entityToModel(transaction *entity.Transaction) model.Transaction {
	updatedAt := transaction.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = transaction.CreatedAt
	}
	return model.Transaction{
		Reference:      transaction.Reference,
		UserID:         transaction.UserID,
		Type:           string(transaction.Type),
		Asset:          transaction.Asset.String(),
		Amount:         transaction.Amount.String(),
		Status:         string(transaction.Status),
		Hash:           transaction.Hash,
		DepositAddress: transaction.DepositAddress,
		CreatedAt:      transaction.CreatedAt.UTC(),
		UpdatedAt:      updatedAt.UTC(),
	}
}

// modelToEntity converts a transaction model to an entity
func (r *TransactionRepository) modelToEntity(m *model.Transaction) (*entity.Transaction, error) {
	asset, err := entity.ParseAsset(m.Asset)
	if err != nil {
		return nil, fmt.Errorf("stored transaction %s: %w", m.Reference, err)
	}
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return nil, fmt.Errorf("stored transaction %s: %w: %s", m.Reference, errs.ErrInvalidAmount, m.Amount)
	}

	return &entity.Transaction{
		Reference:      m.Reference,
		UserID:         m.UserID,
		Type:           entity.TransactionType(m.Type),
		Asset:          asset,
		Amount:         amount,
		Status:         entity.TransactionStatus(m.Status),
		Hash:           m.Hash,
		DepositAddress: m.DepositAddress,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}, nil
}

// modelsToEntities converts a batch, logging and skipping rows that no longer parse
func (r *TransactionRepository) modelsToEntities(models []model.Transaction) []*entity.Transaction {
	out := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		tx, err := r.modelToEntity(&models[i])
		if err != nil {
			r.logger.Error("Skipping unreadable transaction row", map[string]any{
				"reference": models[i].Reference,
				"error":     err.Error(),
			})
			continue
		}
		out = append(out, tx)
	}
	return out
}

// Create saves a new transaction
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.logger.Debug("Creating transaction", map[string]any{
		"reference": transaction.Reference,
		"user_id":   transaction.UserID,
	})

	transactionModel := r.entityToModel(transaction)

	err := database.RetryOnTransientError(ctx, r.retryConfig, func() error {
		return r.db.WithContext(ctx).Create(&transactionModel).Error
	}, r.logger)

	if err != nil {
		if r.errorClassifier.IsDuplicateKeyError(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
			r.logger.Warn("Duplicate transaction reference", map[string]any{
				"reference": transaction.Reference,
				"user_id":   transaction.UserID,
			})
			return errs.ErrDuplicateReference
		}

		r.logger.Error("Failed to create transaction", map[string]any{
			"reference": transaction.Reference,
			"user_id":   transaction.UserID,
			"error":     err.Error(),
		})
		return r.errorMapper.MapError(err, database.EntityTypeTransaction, "create")
	}

	r.logger.Info("Transaction created successfully", map[string]any{
		"reference": transaction.Reference,
		"user_id":   transaction.UserID,
		"status":    transaction.Status,
	})
	return nil
}

// GetByReference retrieves a transaction by its upstream reference
func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("reference = ?", strings.TrimSpace(reference)).
		First(&transactionModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			r.logger.Debug("Transaction not found", map[string]any{
				"reference": reference,
			})
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get transaction", map[string]any{
			"reference": reference,
			"error":     result.Error.Error(),
		})
		return nil, r.errorMapper.MapError(result.Error, database.EntityTypeTransaction, "get")
	}

	return r.modelToEntity(&transactionModel)
}

// UpdateStatus applies a status transition with a single conditional statement per row.
// The terminal guard and the "status actually changed" check are both evaluated by the
// database, so two racing writers can never both observe changed=true.
func (r *TransactionRepository) UpdateStatus(
	ctx context.Context,
	reference string,
	status entity.TransactionStatus,
	hash string,
) (bool, error) {
	reference = strings.TrimSpace(reference)
	hash = strings.TrimSpace(hash)
	terminal := terminalStatusValues()

	var changed bool
	err := database.RetryOnTransientError(ctx, r.retryConfig, func() error {
		changed = false
		now := r.timeProvider.Now().UTC()

		updates := map[string]any{
			"status":     string(status),
			"updated_at": now,
		}
		if hash != "" {
			updates["hash"] = hash
		}

		_, err := r.metrics.MeasureQuery("transactions.update_status", func() (int64, error) {
			result := r.db.WithContext(ctx).Model(&model.Transaction{}).
				Where("reference = ? AND status NOT IN ? AND status <> ?", reference, terminal, string(status)).
				Updates(updates)
			if result.Error == nil && result.RowsAffected == 1 {
				changed = true
			}
			return result.RowsAffected, result.Error
		})
		if err != nil || changed {
			return err
		}

		// Same status again: only a newly learned hash is worth writing
		if hash != "" {
			result := r.db.WithContext(ctx).Model(&model.Transaction{}).
				Where("reference = ? AND status = ? AND status NOT IN ?", reference, string(status), terminal).
				Updates(map[string]any{"hash": hash, "updated_at": now})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 1 {
				return nil
			}
		}

		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Transaction{}).
			Where("reference = ?", reference).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.ErrTransactionNotFound
		}
		return nil
	}, r.logger)

	if err != nil {
		if errors.Is(err, errs.ErrTransactionNotFound) {
			return false, err
		}
		r.logger.Error("Failed to update transaction status", map[string]any{
			"reference": reference,
			"status":    status,
			"error":     err.Error(),
		})
		return false, r.errorMapper.MapError(err, database.EntityTypeTransaction, "update_status")
	}

	r.logger.Debug("Transaction status update applied", map[string]any{
		"reference": reference,
		"status":    status,
		"changed":   changed,
	})
	return changed, nil
}

// ListActive returns non-terminal transactions whose age lies within [olderThan, youngerThan]
func (r *TransactionRepository) ListActive(ctx context.Context, olderThan, youngerThan time.Duration) ([]*entity.Transaction, error) {
	now := r.timeProvider.Now().UTC()
	newest := now.Add(-olderThan)
	oldest := now.Add(-youngerThan)

	var models []model.Transaction
	_, err := r.metrics.MeasureQuery("transactions.list_active", func() (int64, error) {
		result := r.db.WithContext(ctx).
			Where("status NOT IN ?", terminalStatusValues()).
			Where("created_at >= ? AND created_at <= ?", oldest, newest).
			Order("created_at ASC").
			Find(&models)
		return result.RowsAffected, result.Error
	})
	if err != nil {
		r.logger.Error("Failed to list active transactions", map[string]any{
			"error": err.Error(),
		})
		return nil, r.errorMapper.MapError(err, database.EntityTypeTransaction, "list_active")
	}

	return r.modelsToEntities(models), nil
}

// ListByUser returns the most recent transactions of a user, newest first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entity.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}

	var models []model.Transaction
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		r.logger.Error("Failed to list user transactions", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, r.errorMapper.MapError(result.Error, database.EntityTypeTransaction, "list_by_user")
	}

	return r.modelsToEntities(models), nil
}
