package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	errs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/usecase"
)

// Default scheduler settings
const (
	DefaultInterval        = 60 * time.Second
	DefaultMinAge          = time.Minute
	DefaultMaxAge          = 24 * time.Hour
	DefaultConcurrency     = 4
	DefaultLockTTL         = 2 * time.Minute
	DefaultUpstreamTimeout = 15 * time.Second
	DefaultChainTimeout    = 20 * time.Second
)

// SchedulerConfig controls the recovery loop
type SchedulerConfig struct {
	Interval        time.Duration
	MinAge          time.Duration
	MaxAge          time.Duration
	Concurrency     int
	LockTTL         time.Duration
	UpstreamTimeout time.Duration
	ChainTimeout    time.Duration
	// Owner identifies this process in reference leases; a random id is used when empty
	Owner string
}

func (c SchedulerConfig) withDefaults() SchedulerConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.MinAge <= 0 {
		c.MinAge = DefaultMinAge
	}
	if c.MaxAge <= 0 {
		c.MaxAge = DefaultMaxAge
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.LockTTL <= 0 {
		c.LockTTL = DefaultLockTTL
	}
	if c.UpstreamTimeout <= 0 {
		c.UpstreamTimeout = DefaultUpstreamTimeout
	}
	if c.ChainTimeout <= 0 {
		c.ChainTimeout = DefaultChainTimeout
	}
	if c.Owner == "" {
		c.Owner = uuid.NewString()
	}
	return c
}

// CycleReport summarizes one pass over the active working set
type CycleReport struct {
	StartedAt time.Time
	Duration  time.Duration
	Scanned   int
	Updated   int
	Unchanged int
	Skipped   int
	Failed    int
}

type outcome int

const (
	outcomeUnchanged outcome = iota
	outcomeUpdated
	outcomeSkipped
	outcomeFailed
)

// Scheduler periodically re-checks active transactions against the upstream and,
// for offramps still awaiting a deposit, against the chain itself.
type Scheduler struct {
	repo         persistence.TransactionRepository
	locks        persistence.ReferenceLockRepository
	ramp         gateway.RampClient
	scanner      gateway.ChainScanner
	applier      usecase.StatusApplier
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	cfg          SchedulerConfig

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	last    atomic.Pointer[CycleReport]
	running atomic.Bool
}

// NewScheduler creates a new recovery scheduler. locks may be nil for single-replica setups.
func NewScheduler(
	repo persistence.TransactionRepository,
	locks persistence.ReferenceLockRepository,
	ramp gateway.RampClient,
	scanner gateway.ChainScanner,
	applier usecase.StatusApplier,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	cfg SchedulerConfig,
) *Scheduler {
	return &Scheduler{
		repo:         repo,
		locks:        locks,
		ramp:         ramp,
		scanner:      scanner,
		applier:      applier,
		timeProvider: timeProvider,
		logger:       logger,
		cfg:          cfg.withDefaults(),
	}
}

// Start launches the ticker loop in the background. Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	s.logger.Info("Recovery scheduler started", map[string]any{
		"interval":    s.cfg.Interval.String(),
		"concurrency": s.cfg.Concurrency,
		"owner":       s.cfg.Owner,
	})

	go s.loop(loopCtx, s.done)
}

// Stop cancels the loop and waits for the in-flight cycle to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("Recovery scheduler stopped", nil)
}

// LastReport returns the report of the most recent completed cycle, or nil
func (s *Scheduler) LastReport() *CycleReport {
	return s.last.Load()
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := s.timeProvider.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			// The cycle runs on this goroutine, so the next tick is only
			// consumed once it has returned.
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("Recovery cycle skipped", map[string]any{"error": err.Error()})
			}
		}
	}
}

// RunOnce performs a single reconciliation pass. An error is returned only when the
// working set could not be loaded; per-transaction failures are counted in the report.
func (s *Scheduler) RunOnce(ctx context.Context) (*CycleReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, errors.New("recovery cycle already running")
	}
	defer s.running.Store(false)

	report := &CycleReport{StartedAt: s.timeProvider.Now()}

	active, err := s.repo.ListActive(ctx, s.cfg.MinAge, s.cfg.MaxAge)
	if err != nil {
		return report, err
	}
	report.Scanned = len(active)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.cfg.Concurrency)

	for _, tx := range active {
		tx := tx
		g.Go(func() error {
			res := s.reconcileOne(ctx, tx)
			mu.Lock()
			defer mu.Unlock()
			switch res {
			case outcomeUpdated:
				report.Updated++
			case outcomeSkipped:
				report.Skipped++
			case outcomeFailed:
				report.Failed++
			default:
				report.Unchanged++
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Duration = s.timeProvider.Since(report.StartedAt)
	s.last.Store(report)

	if report.Scanned > 0 {
		s.logger.Info("Recovery cycle finished", map[string]any{
			"scanned":     report.Scanned,
			"updated":     report.Updated,
			"unchanged":   report.Unchanged,
			"skipped":     report.Skipped,
			"failed":      report.Failed,
			"duration_ms": report.Duration.Milliseconds(),
		})
	}
	return report, nil
}

func (s *Scheduler) reconcileOne(ctx context.Context, tx *entity.Transaction) (result outcome) {
	defer func() {
		if recovered := recover(); recovered != nil {
			s.logger.Error("Recovered panic while reconciling transaction", map[string]any{
				"reference": tx.Reference,
				"panic":     fmt.Sprint(recovered),
			})
			result = outcomeFailed
		}
	}()

	if s.locks != nil {
		if err := s.locks.AcquireLock(ctx, tx.Reference, s.cfg.Owner, s.cfg.LockTTL); err != nil {
			if errs.IsReferenceLockedError(err) {
				s.logger.Debug("Reference leased by another worker", map[string]any{"reference": tx.Reference})
				return outcomeSkipped
			}
			s.logFailure(errs.NewTransactionError(tx.Reference, tx.UserID, string(tx.Status), "acquire_lock", err))
			return outcomeFailed
		}
		defer func() {
			if err := s.locks.ReleaseLock(context.WithoutCancel(ctx), tx.Reference, s.cfg.Owner); err != nil {
				s.logger.Warn("Failed to release reference lease", map[string]any{
					"reference": tx.Reference,
					"error":     err.Error(),
				})
			}
		}()
	}

	synced, err := s.syncWithUpstream(ctx, tx)
	if err != nil {
		s.logFailure(err)
		return outcomeFailed
	}
	return synced
}

func (s *Scheduler) logFailure(err error) {
	var txErr *errs.TransactionError
	if errors.As(err, &txErr) {
		s.logger.Error("Failed to reconcile transaction", txErr.LogFields())
		return
	}
	s.logger.Error("Failed to reconcile transaction", map[string]any{"error": err.Error()})
}
