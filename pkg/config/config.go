// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for storage, sharing policy and logging

package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Storage contains blob store backend configuration
	Storage StorageConfig

	// Share contains share engine policy configuration
	Share ShareConfig

	// Log contains logging configuration
	Log LogConfig
}

// StorageConfig holds blob store backend configuration
type StorageConfig struct {
	// Type specifies the storage backend (memory/sqlite/redis/s3)
	Type string

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// S3 contains S3-specific configuration
	S3 S3Config

	// CacheTTL enables the in-process read-through cache when positive,
	// expressed in seconds
	CacheTTL int
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file path
	Path string
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// S3Config holds S3-specific configuration
type S3Config struct {
	// Bucket is the S3 bucket name
	Bucket string

	// Region is the AWS region
	Region string

	// Prefix is prepended to every object key
	Prefix string

	// Endpoint overrides the AWS endpoint for S3-compatible services
	Endpoint string

	// AccessKey and SecretKey select static credentials; when empty the
	// default credentials chain is used
	AccessKey string
	SecretKey string
}

// ShareConfig holds share engine policy configuration
type ShareConfig struct {
	// MaxActiveShares caps simultaneously active shares per owner
	MaxActiveShares int

	// DefaultTTLDays is assigned to shares created without an expiry
	DefaultTTLDays int

	// PublicBaseURL prefixes externally visible share URLs
	PublicBaseURL string

	// SweepRPS bounds the rate of store calls during a reconciliation sweep
	SweepRPS int
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is the minimum level emitted (debug/info/warn/error)
	Level string

	// JSON switches output to JSON lines
	JSON bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Storage: StorageConfig{
			Type: getEnvOrDefault("STORAGE_TYPE", "memory"),
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", "shares.db"),
			},
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			S3: S3Config{
				Bucket:    getEnvOrDefault("S3_BUCKET", ""),
				Region:    getEnvOrDefault("S3_REGION", ""),
				Prefix:    getEnvOrDefault("S3_PREFIX", "shares"),
				Endpoint:  getEnvOrDefault("S3_ENDPOINT", ""),
				AccessKey: getEnvOrDefault("S3_ACCESS_KEY", ""),
				SecretKey: getEnvOrDefault("S3_SECRET_KEY", ""),
			},
			CacheTTL: getEnvAsIntOrDefault("STORAGE_CACHE_TTL", 0),
		},
		Share: ShareConfig{
			MaxActiveShares: getEnvAsIntOrDefault("MAX_ACTIVE_SHARES", 20),
			DefaultTTLDays:  getEnvAsIntOrDefault("DEFAULT_TTL_DAYS", 30),
			PublicBaseURL:   getEnvOrDefault("PUBLIC_BASE_URL", ""),
			SweepRPS:        getEnvAsIntOrDefault("SWEEP_RPS", 50),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
			JSON:  getEnvOrDefault("LOG_FORMAT", "text") == "json",
		},
	}

	return cfg, nil
}

// Validate checks the configuration for inconsistent values
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "memory", "sqlite", "redis", "s3":
	default:
		return errors.New("storage type must be 'memory', 'sqlite', 'redis' or 's3'")
	}

	if c.Storage.Type == "redis" && c.Storage.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis storage")
	}

	if c.Storage.Type == "s3" && c.Storage.S3.Bucket == "" {
		return errors.New("s3 bucket cannot be empty when using s3 storage")
	}

	if c.Share.MaxActiveShares < 1 {
		return errors.New("max active shares must be at least 1")
	}

	if c.Share.DefaultTTLDays < 1 {
		return errors.New("default TTL must be at least 1 day")
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
