package migration

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/model"
)

const (
	// CurrentSchemaVersion represents the current database schema version
	CurrentSchemaVersion = "1.1.0"
)

// MigrationManager manages database migrations
type MigrationManager struct {
	db               *gorm.DB
	logger           coreport.Logger
	timeProvider     coreport.TimeProvider
	advancedIndexMgr *AdvancedIndexManager
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *MigrationManager {
	return &MigrationManager{
		db:               db,
		logger:           logger,
		timeProvider:     timeProvider,
		advancedIndexMgr: NewAdvancedIndexManager(db, logger),
	}
}

// MigrateAll performs all migrations
func (m *MigrationManager) MigrateAll(ctx context.Context) error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
	})

	db := m.db.WithContext(ctx)

	if err := db.AutoMigrate(&model.MigrationVersion{}); err != nil {
		m.logger.Error("Failed to create migration version table", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		m.logger.Error("Failed to check current schema version", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if currentVersion == CurrentSchemaVersion {
		m.logger.Info("Database already at target version, skipping migration", map[string]any{
			"version": currentVersion,
		})
		return nil
	}

	m.logger.Info("Current database version", map[string]any{
		"version": currentVersion,
	})

	if err := m.runVersionedMigrations(ctx, currentVersion); err != nil {
		m.logger.Error("Failed to run versioned migrations", map[string]any{
			"error":           err.Error(),
			"current_version": currentVersion,
			"target_version":  CurrentSchemaVersion,
		})
		return err
	}

	if err := m.autoMigrateModels(ctx); err != nil {
		m.logger.Error("Failed to auto-migrate models", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if err := m.createIndexes(ctx); err != nil {
		m.logger.Error("Failed to create indexes", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if err := m.advancedIndexMgr.CreateAdvancedIndexes(ctx); err != nil {
		m.logger.Error("Failed to create advanced indexes", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if err := m.setVersion(ctx, CurrentSchemaVersion, "Full schema migration"); err != nil {
		m.logger.Error("Failed to update schema version", map[string]any{
			"error":   err.Error(),
			"version": CurrentSchemaVersion,
		})
		return err
	}

	m.logger.Info("Database migrations completed successfully", map[string]any{
		"version": CurrentSchemaVersion,
	})
	return nil
}

// GetCurrentVersion gets the current migration version
func (m *MigrationManager) GetCurrentVersion(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var version model.MigrationVersion
	result := m.db.WithContext(ctx).Order("applied_at desc").Order("id desc").First(&version)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}

	return version.Version, nil
}

func (m *MigrationManager) setVersion(ctx context.Context, version string, details string) error {
	appliedAt := time.Now().UTC()
	if m.timeProvider != nil {
		appliedAt = m.timeProvider.Now().UTC()
	}

	return m.db.WithContext(ctx).Create(&model.MigrationVersion{
		Version:   version,
		AppliedAt: appliedAt,
		Details:   details,
	}).Error
}

func (m *MigrationManager) autoMigrateModels(ctx context.Context) error {
	m.logger.Info("Auto-migrating database models", nil)

	return m.db.WithContext(ctx).AutoMigrate(
		&model.Transaction{},
		&model.ReferenceLock{},
	)
}

// runVersionedMigrations runs migrations specific to version transitions
func (m *MigrationManager) runVersionedMigrations(ctx context.Context, currentVersion string) error {
	m.logger.Info("Running versioned migrations", map[string]any{
		"from": currentVersion,
		"to":   CurrentSchemaVersion,
	})

	switch currentVersion {
	case "":
		return nil
	case "1.0.0":
		return m.migrateFrom1_0_0To1_1_0(ctx)
	}

	return nil
}

// migrateFrom1_0_0To1_1_0 adds the offramp deposit address and the update timestamp.
// Rows created before 1.1.0 get updated_at = created_at.
func (m *MigrationManager) migrateFrom1_0_0To1_1_0(ctx context.Context) error {
	m.logger.Info("Migrating from v1.0.0 to v1.1.0", nil)

	db := m.db.WithContext(ctx)
	migrator := db.Migrator()

	if !migrator.HasTable(&model.Transaction{}) {
		return nil
	}
	if !migrator.HasColumn(&model.Transaction{}, "DepositAddress") {
		if err := migrator.AddColumn(&model.Transaction{}, "DepositAddress"); err != nil {
			return err
		}
	}
	if !migrator.HasColumn(&model.Transaction{}, "UpdatedAt") {
		if err := db.Exec(`ALTER TABLE transactions ADD COLUMN updated_at TIMESTAMP`).Error; err != nil {
			return err
		}
		if err := db.Exec(`UPDATE transactions SET updated_at = created_at WHERE updated_at IS NULL`).Error; err != nil {
			return err
		}
	}
	return nil
}

// createIndexes creates indexes supported by every driver
func (m *MigrationManager) createIndexes(ctx context.Context) error {
	m.logger.Info("Creating database indexes", nil)

	db := m.db.WithContext(ctx)
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_transactions_user_created ON transactions (user_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_status_created ON transactions (status, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_reference_locks_expires_at ON reference_locks (expires_at)",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
