package dto

import "time"

// SchedulerHealth summarizes the last completed recovery cycle
type SchedulerHealth struct {
	LastCycleAt *time.Time `json:"lastCycleAt,omitempty"`
	DurationMs  int64      `json:"durationMs"`
	Scanned     int        `json:"scanned"`
	Updated     int        `json:"updated"`
	Skipped     int        `json:"skipped"`
	Failed      int        `json:"failed"`
}

// PoolHealth is the latest database connection pool sample
type PoolHealth struct {
	Open      int   `json:"open"`
	InUse     int   `json:"inUse"`
	Idle      int   `json:"idle"`
	MaxOpen   int   `json:"maxOpen"`
	WaitCount int64 `json:"waitCount"`
	Saturated bool  `json:"saturated"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status    string           `json:"status"`
	Database  string           `json:"database"`
	Pool      *PoolHealth      `json:"pool,omitempty"`
	Scheduler *SchedulerHealth `json:"scheduler,omitempty"`
	Time      time.Time        `json:"time"`
}
