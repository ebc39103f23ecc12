package core

import (
	"context"
	"time"
)

// Ticker is the subset of time.Ticker the scheduler relies on
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TimeProvider abstracts clock access so reconciliation windows can be tested
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc)
	NewTicker(d time.Duration) Ticker
}
