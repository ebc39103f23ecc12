package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidRequest     = 4000
	CodeInvalidAmount      = 4002
	CodeInvalidUserID      = 4003
	CodeDuplicateReference = 4004
	CodeInvalidAsset       = 4006
	CodeInvalidType        = 4007
	CodeInvalidReference   = 4008
	CodeInvalidSignature   = 4010
	CodeUnauthorized       = 4011
	CodeTransactionMissing = 4040
	CodeReferenceLocked    = 4230

	// 5xxx - Server errors
	CodeInternalServer = 5000
	CodeUpstream       = 5020
)

// Base error types
var (
	// ErrInvalidAmount is returned when the transaction amount is not a positive decimal
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrNegativeAmount is returned when the transaction amount is zero or negative
	ErrNegativeAmount = errors.New("amount must be positive")

	// ErrInvalidUserID is returned when the messaging user ID is not positive
	ErrInvalidUserID = errors.New("user ID must be positive")

	// ErrInvalidReference is returned when the upstream reference is empty
	ErrInvalidReference = errors.New("reference cannot be empty")

	// ErrInvalidType is returned when the transaction type is neither ONRAMP nor OFFRAMP
	ErrInvalidType = errors.New("invalid transaction type")

	// ErrInvalidAsset is returned when the asset is not encoded as "<chain>:<symbol>"
	ErrInvalidAsset = errors.New("invalid asset identifier")

	// ErrInvalidStatus is returned when a status update carries no status
	ErrInvalidStatus = errors.New("invalid transaction status")

	// ErrDuplicateReference is returned when a transaction with the same reference already exists
	ErrDuplicateReference = errors.New("transaction with this reference already exists")

	// ErrTransactionNotFound is returned when the reference is unknown to the store
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrReferenceLocked is returned when another worker holds the reconciliation lease for a reference
	ErrReferenceLocked = errors.New("reference is locked by another worker")

	// ErrUnsupportedChain is returned when no chain scanner is configured for an asset's chain
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrUnknownToken is returned when a chain has no contract or mint configured for a symbol
	ErrUnknownToken = errors.New("unknown token for chain")

	// ErrInvalidSignature is returned when a webhook signature does not match the payload
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrUnauthorized is returned when an admin request carries no valid token
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrUpstream is the sentinel wrapped by every Switch API and chain RPC failure
	ErrUpstream = errors.New("upstream error")

	// ErrNotification is the sentinel wrapped by every notifier failure
	ErrNotification = errors.New("notification delivery failed")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNegativeAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrDuplicateReference):
		return CodeDuplicateReference
	case errors.Is(err, ErrInvalidAsset):
		return CodeInvalidAsset
	case errors.Is(err, ErrInvalidType):
		return CodeInvalidType
	case errors.Is(err, ErrInvalidReference):
		return CodeInvalidReference
	case errors.Is(err, ErrInvalidSignature):
		return CodeInvalidSignature
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionMissing
	case errors.Is(err, ErrReferenceLocked):
		return CodeReferenceLocked
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidStatus):
		return CodeInvalidRequest
	case errors.Is(err, ErrUpstream):
		return CodeUpstream
	default:
		return CodeInternalServer
	}
}

// TransactionError represents a failure while reconciling a single transaction
type TransactionError struct {
	Reference string
	UserID    int64
	Status    string
	Stage     string
	Err       error
}

// Error implements the error interface for TransactionError
func (e *TransactionError) Error() string {
	return fmt.Sprintf("reconcile %s failed at %s (user: %d, status: %s): %v",
		e.Reference, e.Stage, e.UserID, e.Status, e.Err)
}

// Unwrap returns the underlying error
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *TransactionError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "transaction_error",
		"reference":  e.Reference,
		"user_id":    e.UserID,
		"status":     e.Status,
		"stage":      e.Stage,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewTransactionError creates a reconciliation error for one transaction
func NewTransactionError(reference string, userID int64, status, stage string, err error) error {
	return &TransactionError{
		Reference: reference,
		UserID:    userID,
		Status:    status,
		Stage:     stage,
		Err:       err,
	}
}

// NotificationError describes a failed user notification. It never rolls back a persisted status.
type NotificationError struct {
	UserID    int64
	Reference string
	Status    string
	Err       error
}

// Error implements the error interface
func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify user %d about %s (%s): %v", e.UserID, e.Reference, e.Status, e.Err)
}

// Unwrap returns the underlying error
func (e *NotificationError) Unwrap() error {
	return e.Err
}

// Is reports whether the target is ErrNotification
func (e *NotificationError) Is(target error) bool {
	return target == ErrNotification
}

// LogFields returns a map of fields for structured logging
func (e *NotificationError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "notification_error",
		"user_id":    e.UserID,
		"reference":  e.Reference,
		"status":     e.Status,
		"error":      e.Err.Error(),
	}
}

// NewNotificationError wraps a delivery failure
func NewNotificationError(userID int64, reference, status string, err error) error {
	return &NotificationError{
		UserID:    userID,
		Reference: reference,
		Status:    status,
		Err:       err,
	}
}

// DuplicateReferenceError provides detailed information about duplicate transaction attempts
type DuplicateReferenceError struct {
	Reference string
	UserID    int64
}

// Error implements the error interface
func (e *DuplicateReferenceError) Error() string {
	return fmt.Sprintf("duplicate transaction detected: reference=%s for user %d", e.Reference, e.UserID)
}

// Is checks if the target error is an ErrDuplicateReference
func (e *DuplicateReferenceError) Is(target error) bool {
	return target == ErrDuplicateReference
}

// NewDuplicateReferenceError creates a new detailed duplicate reference error
func NewDuplicateReferenceError(reference string, userID int64) error {
	return &DuplicateReferenceError{
		Reference: reference,
		UserID:    userID,
	}
}

// IsDuplicateReferenceError checks if the error is a duplicate reference error
func IsDuplicateReferenceError(err error) bool {
	return errors.Is(err, ErrDuplicateReference)
}

// IsNotFoundError checks if the error is a "transaction not found" error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrTransactionNotFound)
}

// IsReferenceLockedError checks if the error is related to a held reconciliation lease
func IsReferenceLockedError(err error) bool {
	return errors.Is(err, ErrReferenceLocked)
}

// IsUpstreamError checks if the error came from the Switch API or a chain RPC
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// IsValidationError checks if the error was produced by input validation
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidReference) ||
		errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrInvalidAsset) ||
		errors.Is(err, ErrInvalidStatus)
}
