package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Fixture sources
const (
	FixtureSourceEmbedded = "embedded"
	FixtureSourceExcel    = "excel"
	FixtureSourcePostgres = "postgres"
)

// Database drivers
const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	defaultJWTSecret    = "your_jwt_secret_minimum_32_chars_here_change_this"
	defaultProxySecret  = "dev-secret"
	defaultMicroservice = "http://localhost:8001"
)

type Config struct {
	// Application
	AppEnv   string
	AppPort  string
	LogLevel string

	// Security
	JWTSecret string

	// Fixtures
	FixtureSource string
	FixturePath   string

	// Database (only read when FixtureSource is postgres). For sqlite DBName is a file path.
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Microservice proxy
	MicroserviceURL     string
	MicroserviceSecret  string
	ProxyTimeoutSeconds int

	// Rate Limiting
	RateLimitPerUser int
	RateLimitPerIP   int

	// VillageCoins
	LoginGrantCoins    int64
	ListingRewardCoins int64
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		JWTSecret: getEnv("JWT_SECRET_KEY", ""),

		FixtureSource: strings.ToLower(getEnv("FIXTURE_SOURCE", FixtureSourceEmbedded)),
		FixturePath:   getEnv("FIXTURE_PATH", ""),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DBDriverPostgres)),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "villagestay"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "villagestay_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		MicroserviceURL:     strings.TrimRight(getEnv("MICROSERVICE_INTERNAL_URL", defaultMicroservice), "/"),
		MicroserviceSecret:  getEnv("MICROSERVICE_SHARED_SECRET", defaultProxySecret),
		ProxyTimeoutSeconds: getEnvInt("PROXY_TIMEOUT_SECONDS", 15),

		RateLimitPerUser: getEnvInt("RATE_LIMIT_PER_USER", 20),
		RateLimitPerIP:   getEnvInt("RATE_LIMIT_PER_IP", 100),

		LoginGrantCoins:    getEnvInt64("LOGIN_GRANT_COINS", 1250),
		ListingRewardCoins: getEnvInt64("LISTING_REWARD_COINS", 50),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters")
	}
	switch c.FixtureSource {
	case FixtureSourceEmbedded:
	case FixtureSourceExcel:
		if c.FixturePath == "" {
			return fmt.Errorf("FIXTURE_PATH is required when FIXTURE_SOURCE=excel")
		}
	case FixtureSourcePostgres:
		if err := c.ValidateDatabase(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported FIXTURE_SOURCE %q", c.FixtureSource)
	}
	if !strings.HasPrefix(c.MicroserviceURL, "http://") && !strings.HasPrefix(c.MicroserviceURL, "https://") {
		return fmt.Errorf("MICROSERVICE_INTERNAL_URL must be an http(s) URL")
	}
	if c.ProxyTimeoutSeconds <= 0 {
		return fmt.Errorf("PROXY_TIMEOUT_SECONDS must be positive")
	}
	if c.LoginGrantCoins < 0 || c.ListingRewardCoins < 0 {
		return fmt.Errorf("coin amounts must not be negative")
	}
	return nil
}

// ValidateDatabase checks the DB_* settings on their own.
func (c *Config) ValidateDatabase() error {
	switch c.DBDriver {
	case DBDriverPostgres:
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres driver")
		}
	case DBDriverSQLite:
		if c.DBName == "" {
			return fmt.Errorf("DB_NAME must name the sqlite file")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.FixtureSource == FixtureSourcePostgres && c.DBDriver == DBDriverPostgres && c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET_KEY must be changed from default in production")
	}
	if c.MicroserviceSecret == defaultProxySecret {
		return fmt.Errorf("MICROSERVICE_SHARED_SECRET must be changed from default in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) GetProxyTimeout() time.Duration {
	return time.Duration(c.ProxyTimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
