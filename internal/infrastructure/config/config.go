package config

import (
	"fmt"
	"strings"
	"time"
)

// Chain scanner kinds
const (
	ChainKindSolana = "solana"
	ChainKindEVM    = "evm"
)

// Config holds all configuration for the application
type Config struct {
	Environment string                 `mapstructure:"environment"`
	Server      ServerConfig           `mapstructure:"server"`
	Database    DatabaseConfig         `mapstructure:"database"`
	Logger      LoggerConfig           `mapstructure:"logger"`
	Scheduler   SchedulerConfig        `mapstructure:"scheduler"`
	Upstream    UpstreamConfig         `mapstructure:"upstream"`
	Telegram    TelegramConfig         `mapstructure:"telegram"`
	Webhook     WebhookConfig          `mapstructure:"webhook"`
	Admin       AdminConfig            `mapstructure:"admin"`
	Chains      map[string]ChainConfig `mapstructure:"chains"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres or sqlite
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"` // database name, or file path for sqlite
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"timeFormat"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// SchedulerConfig contains recovery loop settings
type SchedulerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Interval    time.Duration `mapstructure:"interval"` // seconds
	MinAge      time.Duration `mapstructure:"minAge"`   // seconds
	MaxAge      time.Duration `mapstructure:"maxAge"`   // minutes
	Concurrency int           `mapstructure:"concurrency"`
	LockTTL     time.Duration `mapstructure:"lockTTL"` // seconds
}

// UpstreamConfig contains the exchange ("Switch") API settings
type UpstreamConfig struct {
	BaseURL string        `mapstructure:"baseURL"`
	APIKey  string        `mapstructure:"apiKey"`
	Timeout time.Duration `mapstructure:"timeout"` // seconds
}

// TelegramConfig contains notifier settings
type TelegramConfig struct {
	Token string `mapstructure:"token"`
	Debug bool   `mapstructure:"debug"`
	// Explorers maps a chain name to its transaction URL prefix
	Explorers map[string]string `mapstructure:"explorers"`
}

// WebhookConfig contains webhook receiver settings
type WebhookConfig struct {
	Secret string `mapstructure:"secret"`
}

// AdminConfig contains admin API settings
type AdminConfig struct {
	Token string `mapstructure:"token"`
}

// ChainConfig describes how to scan one chain for deposits
type ChainConfig struct {
	Kind              string        `mapstructure:"kind"` // solana or evm
	RPCURL            string        `mapstructure:"rpcURL"`
	Timeout           time.Duration `mapstructure:"timeout"` // seconds
	SignatureLimit    int           `mapstructure:"signatureLimit"`
	LookbackBlocks    uint64        `mapstructure:"lookbackBlocks"`
	RequestsPerSecond float64       `mapstructure:"requestsPerSecond"`
	// Tokens maps a lower-case symbol to its mint (solana) or contract address (evm)
	Tokens map[string]string `mapstructure:"tokens"`
}

// ChainNames returns the configured chain names
func (c *Config) ChainNames() []string {
	names := make([]string, 0, len(c.Chains))
	for name := range c.Chains {
		names = append(names, name)
	}
	return names
}

// Validate checks settings that have no safe default
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.baseURL is required")
	}
	for name, chain := range c.Chains {
		switch strings.ToLower(chain.Kind) {
		case ChainKindSolana, ChainKindEVM:
		default:
			return fmt.Errorf("chain %s: unsupported kind %q", name, chain.Kind)
		}
		if chain.RPCURL == "" {
			return fmt.Errorf("chain %s: rpcURL is required", name)
		}
	}
	return nil
}
