package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	PlaceData     PlaceDataConfig
	ReferenceData ReferenceDataConfig
	Ledger        LedgerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// PlaceDataConfig holds external business-data provider configuration
type PlaceDataConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
	SearchLimit    int
}

// ReferenceDataConfig holds the location of the static reference datasets
type ReferenceDataConfig struct {
	Dir string
}

// LedgerConfig holds fetch-ledger configuration.
// A TTL of zero means ledger entries never expire.
type LedgerConfig struct {
	TTLHours int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "openlistings"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		PlaceData: PlaceDataConfig{
			BaseURL:        getEnv("PLACEDATA_BASE_URL", "https://api.placedata.io/v1"),
			APIKey:         getEnv("PLACEDATA_API_KEY", ""),
			TimeoutSeconds: getEnvAsInt("PLACEDATA_TIMEOUT_SECONDS", 15),
			SearchLimit:    getEnvAsInt("PLACEDATA_SEARCH_LIMIT", 50),
		},
		ReferenceData: ReferenceDataConfig{
			Dir: getEnv("REFERENCE_DATA_DIR", "data"),
		},
		Ledger: LedgerConfig{
			TTLHours: getEnvAsInt("LEDGER_TTL_HOURS", 0),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Timeout returns the provider call timeout as a duration
func (c *PlaceDataConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TTL returns the ledger entry lifetime, zero meaning no expiry
func (c *LedgerConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
