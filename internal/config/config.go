package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Portfolio PortfolioConfig
	Scheduler SchedulerConfig
	Security  SecurityConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// PortfolioConfig holds portfolio calculation configuration.
// BaseCurrency is the reporting currency for summary totals and NAV
// snapshots; DataDir is where the per-market transaction CSVs live.
type PortfolioConfig struct {
	BaseCurrency string
	DataDir      string
}

// SchedulerConfig holds the background refresh configuration.
// Schedule is a cron expression.
type SchedulerConfig struct {
	Enabled  bool
	Schedule string
}

// SecurityConfig holds encryption configuration. FernetKey encrypts
// sensitive settings at rest; empty disables encrypted settings.
type SecurityConfig struct {
	FernetKey string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Portfolio: PortfolioConfig{
			BaseCurrency: getEnv("BASE_CURRENCY", "USD"),
			DataDir:      getEnv("DATA_DIR", "./data"),
		},
		Scheduler: SchedulerConfig{
			Enabled:  getEnv("SCHEDULER_ENABLED", "true") == "true",
			Schedule: getEnv("SCHEDULER_CRON", "0 18 * * 1-5"),
		},
		Security: SecurityConfig{
			FernetKey: getEnv("FERNET_KEY", ""),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma-separated env value into trimmed entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
