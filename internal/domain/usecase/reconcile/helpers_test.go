package reconcile

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	errs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	mockcore "github.com/amirhossein-jamali/rampbot/mocks/port/core"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestLogger(t *testing.T) *mockcore.MockLogger {
	logger := mockcore.NewMockLogger(t)
	logger.EXPECT().With(mock.Anything).Return(logger).Maybe()
	logger.EXPECT().Debug(mock.Anything, mock.Anything).Maybe()
	logger.EXPECT().Info(mock.Anything, mock.Anything).Maybe()
	logger.EXPECT().Warn(mock.Anything, mock.Anything).Maybe()
	logger.EXPECT().Error(mock.Anything, mock.Anything).Maybe()
	return logger
}

func newTestTimeProvider(t *testing.T) *mockcore.MockTimeProvider {
	tp := mockcore.NewMockTimeProvider(t)
	tp.EXPECT().Now().Return(fixedNow).Maybe()
	tp.EXPECT().Since(mock.Anything).Return(time.Duration(0)).Maybe()
	tp.EXPECT().WithTimeout(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
			return context.WithTimeout(ctx, d)
		}).Maybe()
	return tp
}

func newTx(reference string, txType entity.TransactionType, status entity.TransactionStatus) *entity.Transaction {
	return &entity.Transaction{
		Reference: reference,
		UserID:    1001,
		Type:      txType,
		Asset:     entity.MustParseAsset("solana:usdc"),
		Amount:    decimal.RequireFromString("25"),
		Status:    status,
		CreatedAt: fixedNow.Add(-2 * time.Hour),
		UpdatedAt: fixedNow.Add(-2 * time.Hour),
	}
}

// memoryRepo is a goroutine-safe in-memory store with the same conditional update
// semantics as the SQL repository
type memoryRepo struct {
	mu  sync.Mutex
	txs map[string]*entity.Transaction
}

func newMemoryRepo(txs ...*entity.Transaction) *memoryRepo {
	r := &memoryRepo{txs: make(map[string]*entity.Transaction)}
	for _, tx := range txs {
		cp := *tx
		r.txs[tx.Reference] = &cp
	}
	return r
}

func (r *memoryRepo) Create(_ context.Context, tx *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txs[tx.Reference]; ok {
		return errs.ErrDuplicateReference
	}
	cp := *tx
	r.txs[tx.Reference] = &cp
	return nil
}

func (r *memoryRepo) GetByReference(_ context.Context, reference string) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[reference]
	if !ok {
		return nil, errs.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, reference string, status entity.TransactionStatus, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[reference]
	if !ok {
		return false, errs.ErrTransactionNotFound
	}
	if tx.Status.IsTerminal() {
		return false, nil
	}
	if hash != "" {
		tx.Hash = hash
	}
	if tx.Status == status {
		return false, nil
	}
	tx.Status = status
	return true, nil
}

func (r *memoryRepo) ListActive(_ context.Context, olderThan, youngerThan time.Duration) ([]*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Transaction
	for _, tx := range r.txs {
		age := fixedNow.Sub(tx.CreatedAt)
		if tx.Status.IsTerminal() || age < olderThan || age > youngerThan {
			continue
		}
		cp := *tx
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepo) ListByUser(_ context.Context, userID int64, limit int) ([]*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Transaction
	for _, tx := range r.txs {
		if tx.UserID == userID {
			cp := *tx
			out = append(out, &cp)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepo) get(reference string) entity.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.txs[reference]
}
