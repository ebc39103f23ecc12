package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/logger"
)

var baseNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// testClock is a settable clock for age-window and lease-expiry tests
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock { return &testClock{now: baseNow} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *testClock) Since(t time.Time) time.Duration { return c.Now().Sub(t) }

func (c *testClock) WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}

func (c *testClock) NewTicker(d time.Duration) coreport.Ticker {
	return &stdTicker{t: time.NewTicker(d)}
}

type stdTicker struct{ t *time.Ticker }

func (s *stdTicker) C() <-chan time.Time { return s.t.C }
func (s *stdTicker) Stop()               { s.t.Stop() }

type fixture struct {
	clock *testClock
	db    *database.TestDBManager
	txs   *TransactionRepository
	locks *ReferenceLockRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := newTestClock()
	log := logger.NewNoopLogger()
	db := database.NewTestDBManager(t, log, clock)
	return &fixture{
		clock: clock,
		db:    db,
		txs:   NewTransactionRepository(db.DB(), log, clock),
		locks: NewReferenceLockRepository(db.DB(), clock, log),
	}
}

func txAt(reference string, userID int64, status entity.TransactionStatus, age time.Duration) *entity.Transaction {
	created := baseNow.Add(-age)
	return &entity.Transaction{
		Reference: reference,
		UserID:    userID,
		Type:      entity.TypeOnramp,
		Asset:     entity.MustParseAsset("solana:usdc"),
		Amount:    decimal.RequireFromString("25.50"),
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created,
	}
}
