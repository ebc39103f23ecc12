package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	errs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/usecase"
	mockgateway "github.com/amirhossein-jamali/rampbot/mocks/port/gateway"
	mockpersistence "github.com/amirhossein-jamali/rampbot/mocks/port/persistence"
)

func TestStatusService_ApplyStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown reference", func(t *testing.T) {
		repo := mockpersistence.NewMockTransactionRepository(t)
		notifier := mockgateway.NewMockNotifier(t)
		repo.EXPECT().GetByReference(mock.Anything, "missing").Return(nil, errs.ErrTransactionNotFound)

		svc := NewStatusService(repo, notifier, newTestLogger(t))
		res, err := svc.ApplyStatus(ctx, usecase.ApplyStatusRequest{Reference: "missing", Status: entity.StatusCompleted})

		assert.Nil(t, res)
		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})

	t.Run("empty reference", func(t *testing.T) {
		svc := NewStatusService(mockpersistence.NewMockTransactionRepository(t), mockgateway.NewMockNotifier(t), newTestLogger(t))
		_, err := svc.ApplyStatus(ctx, usecase.ApplyStatusRequest{Reference: " ", Status: entity.StatusCompleted})
		assert.ErrorIs(t, err, errs.ErrInvalidReference)
	})

	t.Run("empty status", func(t *testing.T) {
		svc := NewStatusService(mockpersistence.NewMockTransactionRepository(t), mockgateway.NewMockNotifier(t), newTestLogger(t))
		_, err := svc.ApplyStatus(ctx, usecase.ApplyStatusRequest{Reference: "ref-1"})
		assert.ErrorIs(t, err, errs.ErrInvalidStatus)
	})

	t.Run("terminal transaction is left untouched", func(t *testing.T) {
		repo := mockpersistence.NewMockTransactionRepository(t)
		notifier := mockgateway.NewMockNotifier(t)
		tx := newTx("ref-1", entity.TypeOnramp, entity.StatusCompleted)
		repo.EXPECT().GetByReference(mock.Anything, "ref-1").Return(tx, nil)

		svc := NewStatusService(repo, notifier, newTestLogger(t))
		res, err := svc.ApplyStatus(ctx, usecase.ApplyStatusRequest{Reference: "ref-1", Status: entity.StatusFailed})

		require.NoError(t, err)
		assert.True(t, res.AlreadyTerminal)
		assert.False(t, res.Changed)
		assert.Equal(t, entity.StatusCompleted, res.Transaction.Status)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("changed notifiable status notifies once", func(t *testing.T) {
		repo := mockpersistence.NewMockTransactionRepository(t)
		notifier := mockgateway.NewMockNotifier(t)
		tx := newTx("ref-1", entity.TypeOnramp, entity.StatusPending)
		repo.EXPECT().GetByReference(mock.Anything, "ref-1").Return(tx, nil)
		repo.EXPECT().UpdateStatus(mock.Anything, "ref-1", entity.StatusProcessing, "0xABC").Return(true, nil)
		notifier.EXPECT().Notify(mock.Anything, mock.MatchedBy(func(n gateway.Notification) bool {
			return n.UserID == 1001 && n.Reference == "ref-1" && n.Status == entity.StatusProcessing &&
				n.Type == entity.TypeOnramp && n.Hash == "0xABC" && n.Asset.String() == "solana:usdc" && n.Message == "on its way"
		})).Return(nil).Once()

		svc := NewStatusService(repo, notifier, newTestLogger(t))
		res, err := svc.ApplyStatus(ctx, usecase.ApplyStatusRequest{
			Reference: "ref-1",
			Status:    "processing",
			Hash:      "0xABC",
			Message:   "on its way",
		})

		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.True(t, res.Notified)
		assert.Equal(t, entity.StatusProcessing, res.Transaction.Status)
		assert.Equal(t, "0xABC", res.Transaction.Hash)
	})

	t.Run("notification carries the stored direction over the upstream one", func(t *testing.T) {
		repo := mockpersistence.NewMockTransactionRepository(t)
		notifier := mockgateway.NewMockNotifier(t)
		tx := newTx("ref-2", entity.TypeOfframp, entity.StatusProcessing)
		repo.EXPECT().GetByReference(mock.Anything, "ref-2").Return(tx, nil)
		repo.EXPECT().UpdateStatus(mock.Anything, "ref-2", entity.StatusCompleted, "").Return(true, nil)
		notifier.EXPECT().Notify(mock.Anything, mock.MatchedBy(func(n gateway.Notification) bool {
			return n.Type == entity.TypeOfframp
		})).Return(nil).Once()

		svc := NewStatusService(repo, notifier, newTestLogger(t))
		_, err := svc.ApplyStatus(ctx, usecase.ApplyStatusRequest{
			Reference: "ref-2",
			Status:    entity.StatusCompleted,
			Extra:     &gateway.NotificationExtra{Type: "ONRAMP"},
		})
		require.NoError(t, err)
	})

	t.Run("same status does not notify", func(t *testing.T) {
		repo := mockpersistence.NewMockTransactionRepository(t)
		notifier := mockgateway.NewMockNotifier(t)
		tx := newTx("ref-1", entity.TypeOnramp, entity.StatusProcessing)
		repo.EXPECT().GetByReference(mock.Anything, "ref-1").Return(tx, nil)
		repo.EXPECT().UpdateStatus(mock.Anything, "ref-1", entity.StatusProcessing, "").Return(false, nil)

		svc := NewStatusService(repo, notifier, newTestLogger(t))
		res, err := svc.ApplyStatus(ctx, usecase.ApplyStatusRequest{Reference: "ref-1", Status: entity.StatusProcessing})

		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.False(t, res.Notified)
	})

	t.Run("non notifiable status is persisted silently", func(t *testing.T) {
		repo := mockpersistence.NewMockTransactionRepository(t)
		notifier := mockgateway.NewMockNotifier(t)
		tx := newTx("ref-2", entity.TypeOfframp, entity.StatusAwaitingDeposit)
		repo.EXPECT().GetByReference(mock.Anything, "ref-2").Return(tx, nil)
		repo.EXPECT().UpdateStatus(mock.Anything, "ref-2", entity.StatusAwaitingConfirmation, "").Return(true, nil)

		svc := NewStatusService(repo, notifier, newTestLogger(t))
		res, err := svc.ApplyStatus(ctx, usecase.ApplyStatusRequest{Reference: "ref-2", Status: entity.StatusAwaitingConfirmation})

		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.False(t, res.Notified)
	})

	t.Run("notifier failure keeps the persisted status", func(t *testing.T) {
		repo := mockpersistence.NewMockTransactionRepository(t)
		notifier := mockgateway.NewMockNotifier(t)
		tx := newTx("ref-3", entity.TypeOnramp, entity.StatusProcessing)
		repo.EXPECT().GetByReference(mock.Anything, "ref-3").Return(tx, nil)
		repo.EXPECT().UpdateStatus(mock.Anything, "ref-3", entity.StatusCompleted, "").Return(true, nil)
		notifier.EXPECT().Notify(mock.Anything, mock.Anything).Return(errors.New("chat not found"))

		svc := NewStatusService(repo, notifier, newTestLogger(t))
		res, err := svc.ApplyStatus(ctx, usecase.ApplyStatusRequest{Reference: "ref-3", Status: entity.StatusCompleted})

		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.False(t, res.Notified)
		assert.Equal(t, entity.StatusCompleted, res.Transaction.Status)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		repo := mockpersistence.NewMockTransactionRepository(t)
		notifier := mockgateway.NewMockNotifier(t)
		tx := newTx("ref-4", entity.TypeOnramp, entity.StatusPending)
		repo.EXPECT().GetByReference(mock.Anything, "ref-4").Return(tx, nil)
		repo.EXPECT().UpdateStatus(mock.Anything, "ref-4", entity.StatusVerified, "").Return(false, errs.ErrDatabaseConnection)

		svc := NewStatusService(repo, notifier, newTestLogger(t))
		_, err := svc.ApplyStatus(ctx, usecase.ApplyStatusRequest{Reference: "ref-4", Status: entity.StatusVerified})

		assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
	})
}

func TestStatusService_TerminalIsIdempotent(t *testing.T) {
	repo := newMemoryRepo(newTx("ref-1", entity.TypeOnramp, entity.StatusProcessing))
	notifier := mockgateway.NewMockNotifier(t)
	notifier.EXPECT().Notify(mock.Anything, mock.Anything).Return(nil).Once()

	svc := NewStatusService(repo, notifier, newTestLogger(t))
	ctx := context.Background()

	_, err := svc.ApplyStatus(ctx, usecase.ApplyStatusRequest{Reference: "ref-1", Status: entity.StatusCompleted, Hash: "0xABC"})
	require.NoError(t, err)

	for _, later := range []entity.TransactionStatus{entity.StatusFailed, entity.StatusProcessing, entity.StatusCompleted} {
		res, err := svc.ApplyStatus(ctx, usecase.ApplyStatusRequest{Reference: "ref-1", Status: later, Hash: "0xOTHER"})
		require.NoError(t, err)
		assert.True(t, res.AlreadyTerminal)
	}

	stored := repo.get("ref-1")
	assert.Equal(t, entity.StatusCompleted, stored.Status)
	assert.Equal(t, "0xABC", stored.Hash)
}

func TestStatusService_HashPreservedWhenLaterUpdateOmitsIt(t *testing.T) {
	repo := newMemoryRepo(newTx("ref-1", entity.TypeOnramp, entity.StatusPending))
	notifier := mockgateway.NewMockNotifier(t)
	notifier.EXPECT().Notify(mock.Anything, mock.Anything).Return(nil)

	svc := NewStatusService(repo, notifier, newTestLogger(t))
	ctx := context.Background()

	_, err := svc.ApplyStatus(ctx, usecase.ApplyStatusRequest{Reference: "ref-1", Status: entity.StatusProcessing, Hash: "0xABC"})
	require.NoError(t, err)
	res, err := svc.ApplyStatus(ctx, usecase.ApplyStatusRequest{Reference: "ref-1", Status: entity.StatusCompleted})
	require.NoError(t, err)

	assert.Equal(t, "0xABC", res.Transaction.Hash)
	assert.Equal(t, "0xABC", repo.get("ref-1").Hash)
}

func TestStatusService_ConcurrentDuplicatesNotifyOnce(t *testing.T) {
	repo := newMemoryRepo(newTx("ref-1", entity.TypeOnramp, entity.StatusProcessing))
	notifier := mockgateway.NewMockNotifier(t)

	var notified atomic.Int32
	notifier.EXPECT().Notify(mock.Anything, mock.Anything).
		Run(func(_ context.Context, _ gateway.Notification) { notified.Add(1) }).
		Return(nil).Maybe()

	svc := NewStatusService(repo, notifier, newTestLogger(t))

	const callers = 16
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.ApplyStatus(context.Background(), usecase.ApplyStatusRequest{
				Reference: "ref-1",
				Status:    entity.StatusCompleted,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), notified.Load())
	assert.Equal(t, entity.StatusCompleted, repo.get("ref-1").Status)
}

func TestNotificationType(t *testing.T) {
	stored := newTx("ref-1", entity.TypeOfframp, entity.StatusPending)
	assert.Equal(t, entity.TypeOfframp, notificationType(stored, nil))
	assert.Equal(t, entity.TypeOfframp, notificationType(stored, &gateway.NotificationExtra{Type: "onramp"}))

	legacy := newTx("ref-2", "", entity.StatusPending)
	assert.Equal(t, entity.TypeOnramp, notificationType(legacy, &gateway.NotificationExtra{Type: " onramp "}))
	assert.Equal(t, entity.TransactionType(""), notificationType(legacy, nil))
}
