package database

import (
	"fmt"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
)

// DefaultPoolPressure is the in-use ratio above which the pool counts as saturated
const DefaultPoolPressure = 0.8

// ConnectionPoolMetrics is one sample of the sql.DB pool
type ConnectionPoolMetrics struct {
	SampledAt    time.Time
	Open         int
	Idle         int
	InUse        int
	MaxOpen      int
	WaitCount    int64
	WaitDuration time.Duration
	Saturated    bool
}

// ConnectionPoolMonitor samples the pool on a ticker. The webhook receiver and the recovery
// scheduler share the pool, so a saturated sample usually means a cycle is starving webhooks.
type ConnectionPoolMonitor struct {
	db           *Manager
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	pressure     float64

	mu       sync.RWMutex
	last     ConnectionPoolMetrics
	prevWait int64

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewConnectionPoolMonitor creates a new connection pool monitor
func NewConnectionPoolMonitor(db *Manager, logger coreport.Logger, timeProvider coreport.TimeProvider) *ConnectionPoolMonitor {
	return &ConnectionPoolMonitor{
		db:           db,
		logger:       logger.With(map[string]any{"component": "pool_monitor"}),
		timeProvider: timeProvider,
		pressure:     DefaultPoolPressure,
		stopChan:     make(chan struct{}),
	}
}

// Start takes a first sample synchronously and then keeps sampling every interval
func (m *ConnectionPoolMonitor) Start(interval time.Duration) error {
	if err := m.sample(); err != nil {
		return err
	}

	ticker := m.timeProvider.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C():
				if err := m.sample(); err != nil {
					m.logger.Error("Failed to sample connection pool", map[string]any{
						"error": err.Error(),
					})
				}
			case <-m.stopChan:
				return
			}
		}
	}()

	return nil
}

// Stop stops sampling; safe to call more than once
func (m *ConnectionPoolMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

// GetMetrics returns the latest sample
func (m *ConnectionPoolMonitor) GetMetrics() ConnectionPoolMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

func (m *ConnectionPoolMonitor) sample() error {
	sqlDB, err := m.db.DB().DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	stats := sqlDB.Stats()

	metrics := ConnectionPoolMetrics{
		SampledAt:    m.timeProvider.Now().UTC(),
		Open:         stats.OpenConnections,
		Idle:         stats.Idle,
		InUse:        stats.InUse,
		MaxOpen:      stats.MaxOpenConnections,
		WaitCount:    stats.WaitCount,
		WaitDuration: stats.WaitDuration,
		// a single-connection sqlite pool is always full while a query runs
		Saturated: stats.MaxOpenConnections > 1 &&
			float64(stats.InUse) > float64(stats.MaxOpenConnections)*m.pressure,
	}

	m.mu.Lock()
	newWaits := metrics.WaitCount - m.prevWait
	m.prevWait = metrics.WaitCount
	m.last = metrics
	m.mu.Unlock()

	if metrics.Saturated {
		m.logger.Warn("Database connection pool nearly exhausted", map[string]any{
			"in_use":    metrics.InUse,
			"max_open":  metrics.MaxOpen,
			"idle":      metrics.Idle,
			"new_waits": newWaits,
			"wait_time": metrics.WaitDuration.String(),
		})
	}
	return nil
}
