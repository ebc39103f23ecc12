package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/database"
)

// ErrorType represents the type of database error that occurred
type ErrorType string

const (
	DuplicateKeyError ErrorType = "duplicate_key"
	TransientError    ErrorType = "transient"
	LockError         ErrorType = "lock"
	ContextError      ErrorType = "context"
)

// ErrorClassifier provides methods to classify database errors
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// Classify returns the type of error
func (c *ErrorClassifier) Classify(err error) ErrorType {
	if err == nil {
		return ""
	}

	switch {
	case c.IsContextError(err):
		return ContextError
	case c.IsDuplicateKeyError(err):
		return DuplicateKeyError
	case c.IsLockError(err):
		return LockError
	case database.IsTransientError(err):
		return TransientError
	}

	return ""
}

// IsDuplicateKeyError checks if the error is a duplicate key error (postgres or sqlite wording)
func (c *ErrorClassifier) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

// IsLockError checks if the error is due to locking
func (c *ErrorClassifier) IsLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "lock wait timeout") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "database is locked")
}

// IsContextError checks if an error is related to context timeout or cancellation
func (c *ErrorClassifier) IsContextError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "context deadline exceeded") ||
		strings.Contains(msg, "context canceled")
}

// terminalStatusValues returns the terminal statuses as stored column values
func terminalStatusValues() []string {
	terminal := entity.TerminalStatuses()
	out := make([]string, len(terminal))
	for i, s := range terminal {
		out[i] = string(s)
	}
	return out
}
