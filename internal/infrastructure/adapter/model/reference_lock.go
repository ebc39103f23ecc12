package model

import (
	"time"
)

// ReferenceLock is a short-lived lease held by the worker reconciling a reference
type ReferenceLock struct {
	Reference string    `gorm:"primaryKey;size:128"`
	Owner     string    `gorm:"not null;size:64"`
	LockedAt  time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for ReferenceLock
func (ReferenceLock) TableName() string {
	return "reference_locks"
}
