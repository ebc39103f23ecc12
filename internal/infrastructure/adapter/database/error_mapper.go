package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	domainErr "github.com/amirhossein-jamali/rampbot/internal/domain/error"
)

// EntityType represents the type of entity for errors mapping
type EntityType string

const (
	// EntityTypeTransaction represents the transaction entity
	EntityTypeTransaction EntityType = "transaction"
	// EntityTypeReferenceLock represents the reconciliation lease entity
	EntityTypeReferenceLock EntityType = "reference_lock"
)

// ErrorMapper maps database errors to domain errors
type ErrorMapper struct{}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// MapError maps a database error to a domain error. The original error text is kept in
// the message so logs still show the driver's reason.
func (m *ErrorMapper) MapError(err error, entity EntityType, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if entity == EntityTypeTransaction {
			return domainErr.ErrTransactionNotFound
		}
		return fmt.Errorf("%w: %s not found", domainErr.ErrDatabaseConnection, entity)
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return m.duplicate(entity)
	}

	errMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "unique constraint"):
		return m.duplicate(entity)

	case strings.Contains(errMsg, "deadlock") ||
		strings.Contains(errMsg, "lock timeout"):
		if entity == EntityTypeReferenceLock {
			return domainErr.ErrReferenceLocked
		}
		return fmt.Errorf("%w: %s %s: %s", domainErr.ErrDatabaseConnection, operation, entity, err.Error())

	default:
		return fmt.Errorf("%w: %s %s: %s", domainErr.ErrDatabaseConnection, operation, entity, err.Error())
	}
}

func (m *ErrorMapper) duplicate(entity EntityType) error {
	if entity == EntityTypeReferenceLock {
		return domainErr.ErrReferenceLocked
	}
	return domainErr.ErrDuplicateReference
}
