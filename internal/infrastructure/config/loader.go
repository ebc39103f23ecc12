package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix is the prefix of every environment override
const EnvPrefix = "RB"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file first
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")

	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			lastError = err
			continue
		}
		return nil
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}
	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 20)
	v.SetDefault("database.maxIdleConns", 10)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1) // seconds

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.callerInfo", true)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.interval", 60)  // seconds
	v.SetDefault("scheduler.minAge", 60)    // seconds
	v.SetDefault("scheduler.maxAge", 1440)  // minutes
	v.SetDefault("scheduler.concurrency", 4)
	v.SetDefault("scheduler.lockTTL", 120) // seconds

	v.SetDefault("upstream.timeout", 15) // seconds
}

// getEnvironment determines the environment to use based on RB_ENV environment variable
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides ensures environment variables override config values,
// mostly for secrets that should never live in the YAML files
func processEnvOverrides(v *viper.Viper) {
	stringOverrides := map[string]string{
		"RB_DB_HOST":          "database.host",
		"RB_DB_PORT":          "database.port",
		"RB_DB_USERNAME":      "database.username",
		"RB_DB_PASSWORD":      "database.password",
		"RB_DB_NAME":          "database.database",
		"RB_DB_SSL_MODE":      "database.sslMode",
		"RB_DB_DRIVER":        "database.driver",
		"RB_SERVER_HOST":      "server.host",
		"RB_LOGGER_LEVEL":     "logger.level",
		"RB_UPSTREAM_URL":     "upstream.baseURL",
		"RB_UPSTREAM_API_KEY": "upstream.apiKey",
		"RB_TELEGRAM_TOKEN":   "telegram.token",
		"RB_WEBHOOK_SECRET":   "webhook.secret",
		"RB_ADMIN_TOKEN":      "admin.token",
	}
	for env, key := range stringOverrides {
		if val := os.Getenv(env); val != "" {
			v.Set(key, val)
		}
	}

	if port := getEnvInt("RB_SERVER_PORT", 0); port > 0 {
		v.Set("server.port", port)
	}
	if maxOpenConns := getEnvInt("RB_DB_MAX_OPEN_CONNS", 0); maxOpenConns > 0 {
		v.Set("database.maxOpenConns", maxOpenConns)
	}
	if interval := getEnvInt("RB_SCHEDULER_INTERVAL_SECONDS", 0); interval > 0 {
		v.Set("scheduler.interval", interval)
	}
	if concurrency := getEnvInt("RB_SCHEDULER_CONCURRENCY", 0); concurrency > 0 {
		v.Set("scheduler.concurrency", concurrency)
	}

	// RPC endpoints usually embed provider keys: RB_CHAINS_<NAME>_RPC_URL
	for name := range v.GetStringMap("chains") {
		env := fmt.Sprintf("%s_CHAINS_%s_RPC_URL", EnvPrefix, strings.ToUpper(name))
		if val := os.Getenv(env); val != "" {
			v.Set("chains."+name+".rpcURL", val)
		}
	}
}

// Helper function to get environment variable as int
func getEnvInt(name string, defaultVal int) int {
	valStr := os.Getenv(name)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// processDurations converts time.Duration fields from their raw values to actual durations
func processDurations(config *Config) {
	config.Server.ReadTimeout *= time.Second
	config.Server.WriteTimeout *= time.Second
	config.Server.IdleTimeout *= time.Second
	config.Server.ReadHeaderTimeout *= time.Second
	config.Server.ShutdownTimeout *= time.Second

	config.Database.ConnMaxLifetime *= time.Minute
	config.Database.ConnMaxIdleTime *= time.Minute
	config.Database.QueryTimeout *= time.Second
	config.Database.RetryDelay *= time.Second

	config.Scheduler.Interval *= time.Second
	config.Scheduler.MinAge *= time.Second
	config.Scheduler.MaxAge *= time.Minute
	config.Scheduler.LockTTL *= time.Second

	config.Upstream.Timeout *= time.Second

	for name, chain := range config.Chains {
		chain.Timeout *= time.Second
		config.Chains[name] = chain
	}
}
