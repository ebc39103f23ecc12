package database

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/config"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents database configuration
type Config struct {
	Driver          string
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string // database name, or file path / DSN for sqlite
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	QueryTimeout    time.Duration
	LogLevel        string
	RetryAttempts   int
	RetryDelay      time.Duration
	// PoolMonitorInterval is how often pool pressure is sampled; zero disables the monitor
	PoolMonitorInterval time.Duration
}

// FromAppConfig converts the application database section into a manager config
func FromAppConfig(cfg config.DatabaseConfig, logLevel string) (*Config, error) {
	port := 0
	if cfg.Driver != DriverSQLite {
		p, err := ParsePort(cfg.Port)
		if err != nil {
			return nil, err
		}
		port = p
	}

	dbConfig := &Config{
		Driver:              cfg.Driver,
		Host:                cfg.Host,
		Port:                port,
		Username:            cfg.Username,
		Password:            cfg.Password,
		Database:            cfg.Database,
		SSLMode:             cfg.SSLMode,
		MaxOpenConns:        cfg.MaxOpenConns,
		MaxIdleConns:        cfg.MaxIdleConns,
		ConnMaxLifetime:     cfg.ConnMaxLifetime,
		ConnMaxIdleTime:     cfg.ConnMaxIdleTime,
		QueryTimeout:        cfg.QueryTimeout,
		LogLevel:            strings.ToLower(logLevel),
		RetryAttempts:       cfg.RetryAttempts,
		RetryDelay:          cfg.RetryDelay,
		PoolMonitorInterval: 30 * time.Second,
	}
	if dbConfig.SSLMode == "" {
		dbConfig.SSLMode = "disable"
	}
	if dbConfig.RetryAttempts <= 0 {
		dbConfig.RetryAttempts = 1
	}

	if err := dbConfig.Validate(); err != nil {
		return nil, err
	}
	return dbConfig, nil
}

// ParsePort parses a port string into an integer
func ParsePort(portStr string) (int, error) {
	if portStr == "" {
		return 5432, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number: %s", portStr)
	}
	return port, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.Database == "" {
			return errors.New("sqlite database path is required")
		}
	case DriverPostgres:
		if c.Host == "" {
			return errors.New("database host is required")
		}
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("invalid port number: %d", c.Port)
		}
		if c.Username == "" {
			return errors.New("database username is required")
		}
		if c.Database == "" {
			return errors.New("database name is required")
		}
		validSSLModes := map[string]bool{
			"disable":     true,
			"require":     true,
			"verify-ca":   true,
			"verify-full": true,
			"prefer":      true,
		}
		if !validSSLModes[c.SSLMode] {
			return fmt.Errorf("invalid SSL mode: %s", c.SSLMode)
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Driver)
	}

	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("max open connections must be positive, got: %d", c.MaxOpenConns)
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("max idle connections must be non-negative, got: %d", c.MaxIdleConns)
	}
	if c.QueryTimeout <= 0 {
		return errors.New("query timeout must be positive")
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay must be non-negative, got: %s", c.RetryDelay)
	}

	switch c.LogLevel {
	case "", "silent", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	if c.Driver == DriverSQLite {
		return c.Database
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode,
	)
}

// WithQueryTimeout returns a copy of the config with updated query timeout
func (c *Config) WithQueryTimeout(timeout time.Duration) *Config {
	newConfig := *c
	newConfig.QueryTimeout = timeout
	return &newConfig
}
