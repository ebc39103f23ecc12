package database

import (
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
)

// DefaultSlowQueryThreshold is the duration above which a store operation is logged as slow
const DefaultSlowQueryThreshold = 100 * time.Millisecond

// OperationStats aggregates the timings of one named store operation
type OperationStats struct {
	Calls    int64
	Failures int64
	Slow     int64
	Total    time.Duration
	Max      time.Duration
}

// MetricsCollector times store operations, logs slow ones and keeps per-operation totals
type MetricsCollector struct {
	logger        coreport.Logger
	timeProvider  coreport.TimeProvider
	slowThreshold time.Duration

	mu    sync.Mutex
	stats map[string]*OperationStats
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger coreport.Logger, timeProvider coreport.TimeProvider) *MetricsCollector {
	return &MetricsCollector{
		logger:        logger,
		timeProvider:  timeProvider,
		slowThreshold: DefaultSlowQueryThreshold,
		stats:         make(map[string]*OperationStats),
	}
}

// MeasureQuery runs fn and records how long it took under operation.
// It returns fn's rows affected and error unchanged.
func (c *MetricsCollector) MeasureQuery(operation string, fn func() (int64, error)) (int64, error) {
	start := c.timeProvider.Now()
	rows, err := fn()
	elapsed := c.timeProvider.Since(start)
	slow := elapsed > c.slowThreshold

	c.mu.Lock()
	s, ok := c.stats[operation]
	if !ok {
		s = &OperationStats{}
		c.stats[operation] = s
	}
	s.Calls++
	s.Total += elapsed
	if elapsed > s.Max {
		s.Max = elapsed
	}
	if err != nil {
		s.Failures++
	}
	if slow {
		s.Slow++
	}
	c.mu.Unlock()

	if slow {
		fields := map[string]any{
			"operation":     operation,
			"duration_ms":   elapsed.Milliseconds(),
			"rows_affected": rows,
		}
		if err != nil {
			fields["error"] = err.Error()
		}
		c.logger.Warn("Slow database query detected", fields)
	}

	return rows, err
}

// Snapshot returns a copy of the per-operation totals
func (c *MetricsCollector) Snapshot() map[string]OperationStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]OperationStats, len(c.stats))
	for op, s := range c.stats {
		out[op] = *s
	}
	return out
}
