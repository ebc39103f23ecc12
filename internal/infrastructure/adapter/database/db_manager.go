package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/database/migration"
)

// Manager manages database connections
type Manager struct {
	config            *Config
	db                *gorm.DB
	logger            coreport.Logger
	errorMapper       *ErrorMapper
	connectionMonitor *ConnectionPoolMonitor
	timeProvider      coreport.TimeProvider
}

// NewManager creates a new database manager
func NewManager(config *Config, logger coreport.Logger, timeProvider coreport.TimeProvider) *Manager {
	return &Manager{
		config:       config,
		logger:       logger,
		errorMapper:  NewErrorMapper(),
		timeProvider: timeProvider,
	}
}

// Connect establishes a database connection, retrying the initial dial
func (m *Manager) Connect(ctx context.Context) (*gorm.DB, error) {
	m.logger.Info("Connecting to database", map[string]any{
		"driver": m.config.Driver,
		"host":   m.config.Host,
		"port":   m.config.Port,
		"name":   m.config.Database,
	})

	var (
		err    error
		gormDB *gorm.DB
	)

	attempts := m.config.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			m.logger.Warn("Retrying database connection", map[string]any{
				"attempt": attempt + 1,
				"of":      attempts,
				"delay":   m.config.RetryDelay.String(),
			})
			select {
			case <-time.After(m.config.RetryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		gormDB, err = m.open()
		if err == nil {
			err = m.ping(ctx, gormDB)
		}
		if err == nil {
			break
		}

		m.logger.Error("Failed to connect to database", map[string]any{
			"error":   err.Error(),
			"attempt": attempt + 1,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	if m.config.Driver == DriverSQLite {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(m.config.MaxOpenConns)
		sqlDB.SetMaxIdleConns(m.config.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(m.config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(m.config.ConnMaxIdleTime)

	m.logger.Info("Successfully connected to database", map[string]any{
		"driver":         m.config.Driver,
		"host":           m.config.Host,
		"name":           m.config.Database,
		"max_open_conns": m.config.MaxOpenConns,
		"max_idle_conns": m.config.MaxIdleConns,
		"query_timeout":  m.config.QueryTimeout.String(),
	})

	m.db = gormDB

	if m.config.PoolMonitorInterval > 0 {
		m.connectionMonitor = NewConnectionPoolMonitor(m, m.logger, m.timeProvider)
		if err := m.connectionMonitor.Start(m.config.PoolMonitorInterval); err != nil {
			m.logger.Warn("Failed to start connection pool monitoring", map[string]any{"error": err.Error()})
			m.connectionMonitor = nil
		}
	}

	return m.db, nil
}

func (m *Manager) open() (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: NewDatabaseLoggerWithTimeProvider(m.logger, m.timeProvider, m.config.LogLevel),
		NowFunc: func() time.Time {
			return m.timeProvider.Now().UTC()
		},
	}

	switch m.config.Driver {
	case DriverPostgres:
		gormConfig.PrepareStmt = true
		return gorm.Open(postgres.Open(m.config.DSN()), gormConfig)
	case DriverSQLite:
		return gorm.Open(sqlite.Open(m.config.DSN()), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", m.config.Driver)
	}
}

func (m *Manager) ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	pingCtx, cancel := m.WithTimeout(ctx)
	defer cancel()
	return sqlDB.PingContext(pingCtx)
}

// RunMigrations brings the schema to the current version
func (m *Manager) RunMigrations(ctx context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database is not connected")
	}
	return migration.NewMigrationManager(m.db, m.logger, m.timeProvider).MigrateAll(ctx)
}

// Ping verifies the database is reachable, used by the health endpoint
func (m *Manager) Ping(ctx context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database is not connected")
	}
	return m.ping(ctx, m.db)
}

// DB returns the GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Driver returns the configured driver name
func (m *Manager) Driver() string {
	return m.config.Driver
}

// Close closes the database connection
func (m *Manager) Close() error {
	m.logger.Info("Closing database connection", nil)

	if m.connectionMonitor != nil {
		m.connectionMonitor.Stop()
		m.connectionMonitor = nil
	}

	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	return sqlDB.Close()
}

// WithTimeout returns a context with timeout for database operations
func (m *Manager) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return m.timeProvider.WithTimeout(ctx, m.config.QueryTimeout)
}

// ErrorMapper returns the error mapper
func (m *Manager) ErrorMapper() *ErrorMapper {
	return m.errorMapper
}

// PoolMetrics returns the last sampled pool metrics, or zero values when monitoring is off
func (m *Manager) PoolMetrics() ConnectionPoolMetrics {
	if m.connectionMonitor == nil {
		return ConnectionPoolMetrics{}
	}
	return m.connectionMonitor.GetMetrics()
}
