package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
)

// TestDBManager provides utilities for testing against a throwaway database
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
}

// NewTestDBManager creates a migrated in-memory sqlite database private to the test.
// The connection is closed through t.Cleanup.
func NewTestDBManager(t testing.TB, logger coreport.Logger, timeProvider coreport.TimeProvider) *TestDBManager {
	t.Helper()

	config := &Config{
		Driver:        DriverSQLite,
		Database:      fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString()),
		MaxOpenConns:  1,
		MaxIdleConns:  1,
		QueryTimeout:  5 * time.Second,
		LogLevel:      "silent",
		RetryAttempts: 1,
	}

	manager := NewManager(config, logger, timeProvider)
	if _, err := manager.Connect(context.Background()); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := manager.RunMigrations(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: Failed to close test database connection: %v", err)
		}
	})

	return &TestDBManager{
		Manager:      manager,
		Config:       config,
		Logger:       logger,
		TimeProvider: timeProvider,
	}
}

// DB returns the underlying gorm handle
func (m *TestDBManager) DB() *gorm.DB {
	return m.Manager.DB()
}

// TruncateAllTables empties every application table
func (m *TestDBManager) TruncateAllTables(t testing.TB) {
	t.Helper()

	for _, table := range []string{"transactions", "reference_locks"} {
		if err := m.DB().Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("Failed to truncate %s: %v", table, err)
		}
	}
}
