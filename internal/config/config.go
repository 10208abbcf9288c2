package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
}

// AppConfig holds application configuration.
type AppConfig struct {
	Name  string
	Env   string
	Host  string
	Port  string
	Debug bool
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	Timezone     string
	MaxIdleConns int
	MaxOpenConns int
	LogQueries   bool
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables, with a .env file
// taking effect if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:  getEnv("APP_NAME", "shopunit-catalog"),
			Env:   getEnv("APP_ENV", "development"),
			Host:  getEnv("APP_HOST", "localhost"),
			Port:  getEnv("APP_PORT", "8080"),
			Debug: getEnvAsBool("APP_DEBUG", false),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "password"),
			Name:         getEnv("DB_NAME", "shopunit_catalog"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			Timezone:     getEnv("DB_TIMEZONE", "UTC"),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			LogQueries:   getEnvAsBool("DB_LOG_QUERIES", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	return cfg, nil
}

// GetDSN returns the database connection string.
func (c *DatabaseConfig) GetDSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// IsProduction checks if the environment is production.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// GetAddress returns the host:port the server should listen on.
func (c *AppConfig) GetAddress() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
