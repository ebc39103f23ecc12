package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	errs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/model"
)

// ReferenceLockRepository leases references to reconcilers using GORM
type ReferenceLockRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewReferenceLockRepository creates a new ReferenceLockRepository instance
func NewReferenceLockRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *ReferenceLockRepository {
	return &ReferenceLockRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// AcquireLock takes or renews the lease on a reference. An expired lease, or one
// already held by the same owner, is taken over; otherwise ErrReferenceLocked.
func (r *ReferenceLockRepository) AcquireLock(ctx context.Context, reference, owner string, ttl time.Duration) error {
	now := r.timeProvider.Now().UTC()
	expiresAt := now.Add(ttl)

	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO reference_locks (reference, owner, locked_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (reference) DO UPDATE
		SET owner = excluded.owner,
		    locked_at = excluded.locked_at,
		    expires_at = excluded.expires_at
		WHERE reference_locks.expires_at <= ? OR reference_locks.owner = ?`,
		reference, owner, now, expiresAt,
		now, owner,
	)

	if result.Error != nil {
		switch r.errorClassifier.Classify(result.Error) {
		case DuplicateKeyError, LockError:
			return errs.ErrReferenceLocked
		case ContextError:
			r.logger.Warn("Context timeout acquiring reference lock", map[string]any{
				"reference": reference,
				"error":     result.Error.Error(),
			})
			return fmt.Errorf("lock acquisition timeout: %w", result.Error)
		}

		r.logger.Error("Database error acquiring reference lock", map[string]any{
			"reference": reference,
			"error":     result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	// The conflict branch was rejected by its WHERE clause: someone else holds a live lease
	if result.RowsAffected == 0 {
		return errs.ErrReferenceLocked
	}

	r.logger.Debug("Reference lock acquired", map[string]any{
		"reference":  reference,
		"owner":      owner,
		"expires_at": expiresAt,
	})
	return nil
}

// ReleaseLock drops the lease if owner still holds it. A lease that already expired
// and was taken over by another owner is left alone.
func (r *ReferenceLockRepository) ReleaseLock(ctx context.Context, reference, owner string) error {
	result := r.db.WithContext(ctx).
		Where("reference = ? AND owner = ?", reference, owner).
		Delete(&model.ReferenceLock{})

	if result.Error != nil {
		if r.errorClassifier.IsContextError(result.Error) {
			r.logger.Warn("Context timeout when releasing lock, lock will expire automatically", map[string]any{
				"reference": reference,
				"error":     result.Error.Error(),
			})
			return nil
		}
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	r.logger.Debug("Reference lock released", map[string]any{
		"reference": reference,
		"released":  result.RowsAffected > 0,
	})
	return nil
}

// CleanupExpiredLocks removes all expired leases
func (r *ReferenceLockRepository) CleanupExpiredLocks(ctx context.Context) (int64, error) {
	now := r.timeProvider.Now().UTC()

	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&model.ReferenceLock{})
	if result.Error != nil {
		r.logger.Error("Failed to clean up expired locks", map[string]any{
			"error": result.Error.Error(),
		})
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Expired reference locks removed", map[string]any{
			"locks_removed": result.RowsAffected,
		})
	}
	return result.RowsAffected, nil
}
