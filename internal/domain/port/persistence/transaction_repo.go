package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
)

// TransactionRepository defines the operations the reconciliation core needs from the transaction store
type TransactionRepository interface {
	// Create saves a newly initiated transaction
	//
	// Possible errors:
	// - ErrDuplicateReference: If a transaction with the same reference already exists
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// GetByReference retrieves a transaction by its upstream reference
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no transaction carries the reference
	// - ErrDatabaseConnection: If database connection fails
	GetByReference(ctx context.Context, reference string) (*entity.Transaction, error)

	// UpdateStatus atomically sets the status of a non-terminal transaction.
	// A non-empty hash overwrites the stored one; an empty hash keeps it.
	// changed is true only when the stored status differed from the new one,
	// so at most one concurrent caller observes a given transition.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no transaction carries the reference
	// - ErrDatabaseConnection: If database connection fails
	UpdateStatus(ctx context.Context, reference string, status entity.TransactionStatus, hash string) (changed bool, err error)

	// ListActive returns non-terminal transactions created between now-youngerThan and now-olderThan,
	// oldest first
	ListActive(ctx context.Context, olderThan, youngerThan time.Duration) ([]*entity.Transaction, error)

	// ListByUser returns the most recent transactions of a user, newest first
	ListByUser(ctx context.Context, userID int64, limit int) ([]*entity.Transaction, error)
}
