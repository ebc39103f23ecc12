package migration

import (
	"context"

	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
)

// AdvancedIndexManager manages PostgreSQL-specific indexes; other drivers skip them
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

// CreateAdvancedIndexes creates the partial index backing the recovery working set query
func (m *AdvancedIndexManager) CreateAdvancedIndexes(ctx context.Context) error {
	if m.db.Dialector.Name() != "postgres" {
		m.logger.Debug("Skipping PostgreSQL indexes", map[string]any{"driver": m.db.Dialector.Name()})
		return nil
	}

	m.logger.Info("Creating advanced PostgreSQL indexes", nil)
	db := m.db.WithContext(ctx)

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_transactions_active_created
		ON transactions (created_at)
		WHERE status NOT IN ('COMPLETED', 'FAILED', 'EXPIRED', 'CANCELLED')
	`).Error; err != nil {
		m.logger.Error("Failed to create active transactions partial index", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_transactions_created_at_brin
		ON transactions USING BRIN (created_at)
		WITH (pages_per_range = 32)
	`).Error; err != nil {
		m.logger.Error("Failed to create BRIN index on created_at", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// reference_locks rows are rewritten every cycle
	if err := db.Exec(`ALTER TABLE reference_locks SET (fillfactor = 70)`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for reference_locks table", map[string]any{
			"error": err.Error(),
		})
	}

	m.logger.Info("Advanced PostgreSQL indexes created successfully", nil)
	return nil
}
