package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. Values come from an optional
// YAML file, with environment variables taking precedence over both the file
// and the defaults.
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// ShutdownTimeoutSeconds bounds how long a graceful shutdown waits for
	// in-flight requests before the server exits.
	ShutdownTimeoutSeconds int `yaml:"shutdown_timeout_seconds"`

	// Storage configuration
	DatabasePath string `yaml:"database_path"`
	UseMemory    bool   `yaml:"use_memory"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Feature flags
	EnableMetrics bool `yaml:"enable_metrics"`
	EnableCORS    bool `yaml:"enable_cors"`

	// CORSOrigins lists the allowed origins for browser clients. The clipper
	// extension talks to the API cross-origin, so this is on by default.
	CORSOrigins []string `yaml:"cors_origins"`
}

// LoadConfig loads configuration from CONFIG_FILE (if present) and the
// environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress:          ":8080",
		Environment:            "development",
		ShutdownTimeoutSeconds: 30,
		DatabasePath:           "clipshelf.db",
		LogLevel:               "info",
		EnableMetrics:          true,
		EnableCORS:             true,
		CORSOrigins:            []string{"*"},
	}

	path := getEnv("CONFIG_FILE", "")
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.ServerAddress = getEnv("SERVER_ADDRESS", cfg.ServerAddress)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.ShutdownTimeoutSeconds = getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", cfg.ShutdownTimeoutSeconds)
	cfg.DatabasePath = getEnv("DATABASE_PATH", cfg.DatabasePath)
	cfg.UseMemory = getEnvBool("USE_MEMORY", cfg.UseMemory)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.EnableMetrics = getEnvBool("ENABLE_METRICS", cfg.EnableMetrics)
	cfg.EnableCORS = getEnvBool("ENABLE_CORS", cfg.EnableCORS)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if !c.UseMemory && c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required when not running in memory")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %d", c.ShutdownTimeoutSeconds)
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
