// Package config provides configuration management for the player profile service.
// It loads configuration from environment variables with sensible defaults and
// validates it so the service starts safely.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: HTTP port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_FILE: Optional log file, stdout when empty
//
// Cache Settings:
//   - ENABLE_PLAYER_CACHE: Memoize built players in process (default: true)
//   - PLAYER_CACHE_SECONDS: Memoization TTL for built players (default: 60)
//   - ENABLE_DB_CACHE: Upsert built players into the player store (default: true)
//   - ENABLE_PROFILE_CACHE: Use Redis for the persistent profile cache (default: true)
//   - PROFILE_FRESH_SECONDS: Age under which a cached profile is fresh (default: 86400)
//   - PROFILE_RETENTION_SECONDS: Redis retention for cached profiles (default: 604800)
//   - UUID_CACHE_SECONDS: Memoization TTL for name lookups (default: 3600)
//   - BATCH_CONCURRENCY: Max concurrent items in a populate batch, 0 for unbounded (default: 16)
//
// Upstream Settings:
//   - PLAYER_API_URL: Base URL of the player data API (required)
//   - PLAYER_API_KEY: API key sent as the API-Key header
//   - PLAYER_API_RATE_LIMIT: Requests per second to the player API, 0 for unlimited (default: 0)
//   - PLAYER_API_BURST: Burst size for the player API rate limit (default: 10)
//   - NAME_API_URL: Base URL of the name to uuid API
//   - UPSTREAM_TIMEOUT: HTTP timeout for upstream calls (default: 10s)
//
// Database Configuration:
//   - DATABASE_TYPE: "sqlite", "postgres" or "memory" (default: sqlite)
//   - DATABASE_PATH: SQLite database file path (default: ./players.db)
//   - POSTGRES_HOST, POSTGRES_PORT, POSTGRES_DB, POSTGRES_USER, POSTGRES_PASSWORD,
//     POSTGRES_SSL_MODE
//
// Redis Configuration:
//   - REDIS_ADDRESS: Redis server address (default: localhost:6379)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the service.
//
// The configuration is loaded using Load() and should be validated using
// Validate() before use.
type Config struct {
	Port     string
	LogLevel string
	LogFile  string

	EnablePlayerCache  bool
	PlayerCacheSeconds int
	EnableDBCache      bool
	EnableProfileCache bool
	ProfileFreshness   time.Duration
	ProfileRetention   time.Duration
	UUIDCacheSeconds   int
	BatchConcurrency   int

	PlayerAPIURL string
	PlayerAPIKey string
	// PlayerAPIRateLimit is requests per second to the player API, 0 for unlimited
	PlayerAPIRateLimit float64
	PlayerAPIBurst     int
	NameAPIURL         string
	UpstreamTimeout    time.Duration

	DatabaseType     string
	DatabasePath     string
	PostgresHost     string
	PostgresPort     string
	PostgresDB       string
	PostgresUser     string
	PostgresPassword string
	PostgresSSLMode  string

	RedisAddress  string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
}

// Load creates a new Config instance with values loaded from environment variables.
// If a variable is not set, or cannot be parsed, the default value is used.
//
// This function does not validate the configuration - call Validate() on the
// returned Config.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		EnablePlayerCache:  getBoolEnv("ENABLE_PLAYER_CACHE", true),
		PlayerCacheSeconds: getIntEnv("PLAYER_CACHE_SECONDS", 60),
		EnableDBCache:      getBoolEnv("ENABLE_DB_CACHE", true),
		EnableProfileCache: getBoolEnv("ENABLE_PROFILE_CACHE", true),
		ProfileFreshness:   time.Duration(getIntEnv("PROFILE_FRESH_SECONDS", 86400)) * time.Second,
		ProfileRetention:   time.Duration(getIntEnv("PROFILE_RETENTION_SECONDS", 604800)) * time.Second,
		UUIDCacheSeconds:   getIntEnv("UUID_CACHE_SECONDS", 3600),
		BatchConcurrency:   getIntEnv("BATCH_CONCURRENCY", 16),

		PlayerAPIURL:       getEnv("PLAYER_API_URL", "https://api.hypixel.net"),
		PlayerAPIKey:       getEnv("PLAYER_API_KEY", ""),
		PlayerAPIRateLimit: getFloatEnv("PLAYER_API_RATE_LIMIT", 0),
		PlayerAPIBurst:     getIntEnv("PLAYER_API_BURST", 10),
		NameAPIURL:         getEnv("NAME_API_URL", "https://api.mojang.com"),
		UpstreamTimeout:    getDurationEnv("UPSTREAM_TIMEOUT", 10*time.Second),

		DatabaseType:     getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:     getEnv("DATABASE_PATH", "./players.db"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDB:       getEnv("POSTGRES_DB", "players"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),

		RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		RedisPoolSize: getIntEnv("REDIS_POOL_SIZE", 10),
	}
}

// PlayerCacheDuration returns the memoization TTL for built players
func (c *Config) PlayerCacheDuration() time.Duration {
	return time.Duration(c.PlayerCacheSeconds) * time.Second
}

// UUIDCacheDuration returns the memoization TTL for name lookups
func (c *Config) UUIDCacheDuration() time.Duration {
	return time.Duration(c.UUIDCacheSeconds) * time.Second
}

// PostgresConnectionString builds a pgx connection string from the POSTGRES_* settings
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresSSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv accepts the strconv.ParseBool spellings and falls back to defaultValue otherwise.
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate checks required fields, value ranges and cross-field dependencies.
//
// Returns a descriptive error if validation fails, nil if the configuration is valid.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	if c.PlayerAPIURL == "" {
		return fmt.Errorf("PLAYER_API_URL is required")
	}
	if c.NameAPIURL == "" {
		return fmt.Errorf("NAME_API_URL is required")
	}
	if c.PlayerAPIRateLimit < 0 {
		return fmt.Errorf("PLAYER_API_RATE_LIMIT must not be negative")
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be a positive duration")
	}

	if c.PlayerCacheSeconds < 0 {
		return fmt.Errorf("PLAYER_CACHE_SECONDS must not be negative")
	}
	if c.UUIDCacheSeconds < 0 {
		return fmt.Errorf("UUID_CACHE_SECONDS must not be negative")
	}
	if c.BatchConcurrency < 0 {
		return fmt.Errorf("BATCH_CONCURRENCY must not be negative")
	}

	switch c.DatabaseType {
	case "sqlite":
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required when using SQLite")
		}
	case "postgres", "postgresql":
		if c.PostgresHost == "" {
			return fmt.Errorf("POSTGRES_HOST is required when using PostgreSQL")
		}
		if c.PostgresDB == "" {
			return fmt.Errorf("POSTGRES_DB is required when using PostgreSQL")
		}
		if c.PostgresUser == "" {
			return fmt.Errorf("POSTGRES_USER is required when using PostgreSQL")
		}
		if port, err := strconv.Atoi(c.PostgresPort); err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("POSTGRES_PORT must be a valid port number")
		}
	case "memory":
	default:
		return fmt.Errorf("DATABASE_TYPE must be 'sqlite', 'postgres' or 'memory'")
	}

	if c.EnableProfileCache {
		if c.RedisAddress == "" {
			return fmt.Errorf("REDIS_ADDRESS is required when ENABLE_PROFILE_CACHE is set")
		}
		if c.RedisDB < 0 || c.RedisDB > 15 {
			return fmt.Errorf("REDIS_DB must be a number between 0 and 15")
		}
		if c.RedisPoolSize < 1 {
			return fmt.Errorf("REDIS_POOL_SIZE must be a positive number")
		}
	}

	// both profile stores honor these, so they are checked with or without redis
	if c.ProfileFreshness <= 0 {
		return fmt.Errorf("PROFILE_FRESH_SECONDS must be positive")
	}
	if c.ProfileRetention < c.ProfileFreshness {
		return fmt.Errorf("PROFILE_RETENTION_SECONDS must not be shorter than PROFILE_FRESH_SECONDS")
	}

	return nil
}
