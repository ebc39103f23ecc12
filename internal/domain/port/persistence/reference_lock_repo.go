package persistence

import (
	"context"
	"time"
)

// ReferenceLockRepository leases a transaction reference to one reconciler at a time
type ReferenceLockRepository interface {
	// AcquireLock takes the lease on reference for owner; it expires after ttl
	//
	// Possible errors:
	// - ErrReferenceLocked: If another owner holds an unexpired lease
	// - ErrDatabaseConnection: If database connection fails
	AcquireLock(ctx context.Context, reference, owner string, ttl time.Duration) error

	// ReleaseLock drops the lease if owner still holds it
	ReleaseLock(ctx context.Context, reference, owner string) error
}
