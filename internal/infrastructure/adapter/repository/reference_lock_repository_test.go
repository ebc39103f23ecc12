package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
)

func TestReferenceLockRepository_Lease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ttl := 2 * time.Minute

	require.NoError(t, f.locks.AcquireLock(ctx, "ref-1", "worker-a", ttl))

	err := f.locks.AcquireLock(ctx, "ref-1", "worker-b", ttl)
	assert.ErrorIs(t, err, errs.ErrReferenceLocked)

	// the holder may renew its own lease
	require.NoError(t, f.locks.AcquireLock(ctx, "ref-1", "worker-a", ttl))

	// another owner cannot release it
	require.NoError(t, f.locks.ReleaseLock(ctx, "ref-1", "worker-b"))
	assert.ErrorIs(t, f.locks.AcquireLock(ctx, "ref-1", "worker-b", ttl), errs.ErrReferenceLocked)

	require.NoError(t, f.locks.ReleaseLock(ctx, "ref-1", "worker-a"))
	assert.NoError(t, f.locks.AcquireLock(ctx, "ref-1", "worker-b", ttl))
}

func TestReferenceLockRepository_ExpiredLeaseIsTakenOver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.locks.AcquireLock(ctx, "ref-1", "worker-a", time.Minute))
	f.clock.Advance(61 * time.Second)

	require.NoError(t, f.locks.AcquireLock(ctx, "ref-1", "worker-b", time.Minute))

	// the stale holder's release must not drop the new lease
	require.NoError(t, f.locks.ReleaseLock(ctx, "ref-1", "worker-a"))
	assert.ErrorIs(t, f.locks.AcquireLock(ctx, "ref-1", "worker-c", time.Minute), errs.ErrReferenceLocked)
}

func TestReferenceLockRepository_CleanupExpiredLocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.locks.AcquireLock(ctx, "ref-1", "worker-a", time.Minute))
	require.NoError(t, f.locks.AcquireLock(ctx, "ref-2", "worker-a", time.Hour))
	f.clock.Advance(5 * time.Minute)

	removed, err := f.locks.CleanupExpiredLocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	assert.NoError(t, f.locks.AcquireLock(ctx, "ref-1", "worker-b", time.Minute))
	assert.ErrorIs(t, f.locks.AcquireLock(ctx, "ref-2", "worker-b", time.Minute), errs.ErrReferenceLocked)
}

func TestErrorClassifier_Classify(t *testing.T) {
	c := NewErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ""},
		{"postgres duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "transactions_pkey" (SQLSTATE 23505)`), DuplicateKeyError},
		{"sqlite duplicate", errors.New("UNIQUE constraint failed: transactions.reference"), DuplicateKeyError},
		{"deadlock", errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"), LockError},
		{"sqlite busy", errors.New("database is locked"), LockError},
		{"transient", errors.New("read tcp 10.0.0.1:5432: connection reset by peer"), TransientError},
		{"context", context.DeadlineExceeded, ContextError},
		{"other", errors.New("syntax error"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}
