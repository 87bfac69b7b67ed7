package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Development bool
	// API configuration
	APIPort            int
	CORSAllowedOrigins []string
	// Database configuration
	DatabaseDriver   string
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string
	PostgresSSLMode  string
	SQLitePath       string

	// Privy configuration
	PrivyAppID           string
	PrivyAppSecret       string
	PrivyAPIURL          string
	PrivyIssuer          string
	PrivyVerificationKey string
	PrivyJWKSURL         string
	PrivyTimeout         time.Duration

	// PlaceholderEmailDomain is used for users whose credential carries no email.
	PlaceholderEmailDomain string

	// Redis address cache, disabled when RedisAddr is empty
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// SMTP configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPSender   string
	NotifyEmail  string

	// Notification configuration
	TelegramBotToken string
	TelegramChatID   string
}

// JWKSURL returns the configured JWKS endpoint or the default one for the app.
func (c *Config) JWKSURL() string {
	if c.PrivyJWKSURL != "" {
		return c.PrivyJWKSURL
	}
	return fmt.Sprintf("%s/api/v1/apps/%s/jwks.json", strings.TrimRight(c.PrivyAPIURL, "/"), c.PrivyAppID)
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresSSLMode)
}

// LoadConfig loads the configuration from environment variables.
// It does not validate; callers apply their overrides and then call Validate.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development:        getEnvAsBool("DEVELOPMENT", false),
		APIPort:            getEnvAsInt("API_PORT", 8080),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		DatabaseDriver:   getEnv("DATABASE_DRIVER", DriverPostgres),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvAsInt("POSTGRES_PORT", 5432),
		PostgresDB:       getEnv("POSTGRES_DB", "walletsync"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		SQLitePath:       getEnv("SQLITE_PATH", "walletsync.db"),

		PrivyAppID:           getEnv("PRIVY_APP_ID", ""),
		PrivyAppSecret:       getEnv("PRIVY_APP_SECRET", ""),
		PrivyAPIURL:          getEnv("PRIVY_API_URL", "https://auth.privy.io"),
		PrivyIssuer:          getEnv("PRIVY_ISSUER", "privy.io"),
		PrivyVerificationKey: getEnv("PRIVY_VERIFICATION_KEY", ""),
		PrivyJWKSURL:         getEnv("PRIVY_JWKS_URL", ""),
		PrivyTimeout:         getEnvAsDuration("PRIVY_TIMEOUT", 10*time.Second),

		PlaceholderEmailDomain: getEnv("PLACEHOLDER_EMAIL_DOMAIN", "privy.local"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      getEnvAsDuration("CACHE_TTL", 24*time.Hour),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPSender:   getEnv("SMTP_SENDER", ""),
		NotifyEmail:  getEnv("NOTIFY_EMAIL", ""),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.PrivyAppID == "" {
		return fmt.Errorf("PRIVY_APP_ID is required")
	}

	if c.PrivyAppSecret == "" {
		return fmt.Errorf("PRIVY_APP_SECRET is required")
	}

	if c.PrivyAPIURL == "" {
		return fmt.Errorf("PRIVY_API_URL is required")
	}

	if c.PlaceholderEmailDomain == "" {
		return fmt.Errorf("PLACEHOLDER_EMAIL_DOMAIN is required")
	}

	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.PostgresDB == "" {
			return fmt.Errorf("POSTGRES_DB is required")
		}
		if c.PostgresHost == "" {
			return fmt.Errorf("POSTGRES_HOST is required")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.NotifyEmail != "" && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST is required when NOTIFY_EMAIL is set")
	}

	if c.TelegramBotToken != "" && c.TelegramChatID == "" {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	return nil
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsList(name string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(name)
	if !exists || strings.TrimSpace(valueStr) == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
