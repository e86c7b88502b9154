// Package config provides application configuration management.
// It loads configuration from environment variables with sensible defaults.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Realtime backends fanning out expense changes.
const (
	RealtimeMemory   = "memory"
	RealtimeRedis    = "redis"
	RealtimePostgres = "postgres"
)

// Auth providers verifying bearer tokens.
const (
	AuthProviderJWT      = "jwt"
	AuthProviderFirebase = "firebase"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Realtime  RealtimeConfig
	Auth      AuthConfig
	Email     EmailConfig
	RateLimit RateLimitConfig
	App       AppConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Environment  string
	FrontendURL  string
}

// DatabaseConfig holds database configuration. URL wins over the DB_* parts.
type DatabaseConfig struct {
	Driver          string
	URL             string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowQuery       time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	URL string
}

// RealtimeConfig selects how expense changes reach live analytics streams.
type RealtimeConfig struct {
	Backend           string
	HeartbeatInterval time.Duration
}

// AuthConfig holds token verification configuration.
type AuthConfig struct {
	Provider                string
	JWTSecret               string
	FirebaseProjectID       string
	FirebaseCredentialsJSON string
}

// EmailConfig holds email service configuration.
type EmailConfig struct {
	ResendAPIKey    string
	APIBaseURL      string
	FromName        string
	FromEmail       string
	WorkerEnabled   bool
	PollInterval    time.Duration
	BatchSize       int
	CleanupInterval time.Duration
	Retention       time.Duration
	ClaimTimeout    time.Duration
}

// RateLimitConfig holds per-user request limits for the API.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

// AppConfig holds domain-level settings.
type AppConfig struct {
	Timezone string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvAsInt("PORT", 8080),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 0),
			Environment:  getEnv("ENV", "development"),
			FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", DriverPostgres),
			URL:             databaseURL(),
			SQLitePath:      getEnv("DB_SQLITE_PATH", "spendwise.db"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			SlowQuery:       getEnvAsDuration("DB_SLOW_QUERY_THRESHOLD", 200*time.Millisecond),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Realtime: RealtimeConfig{
			Backend:           getEnv("REALTIME_BACKEND", RealtimeMemory),
			HeartbeatInterval: getEnvAsDuration("STREAM_HEARTBEAT_INTERVAL", 25*time.Second),
		},
		Auth: AuthConfig{
			Provider:                getEnv("AUTH_PROVIDER", AuthProviderJWT),
			JWTSecret:               getEnv("JWT_SECRET", "change-me-in-production"),
			FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),
		},
		Email: EmailConfig{
			ResendAPIKey:    getEnv("RESEND_API_KEY", ""),
			APIBaseURL:      getEnv("EMAIL_API_BASE_URL", ""),
			FromName:        getEnv("EMAIL_FROM_NAME", "SpendWise"),
			FromEmail:       getEnv("EMAIL_FROM_ADDRESS", "onboarding@resend.dev"),
			WorkerEnabled:   getEnvAsBool("EMAIL_WORKER_ENABLED", true),
			PollInterval:    getEnvAsDuration("EMAIL_WORKER_POLL_INTERVAL", 5*time.Second),
			BatchSize:       getEnvAsInt("EMAIL_WORKER_BATCH_SIZE", 10),
			CleanupInterval: getEnvAsDuration("EMAIL_CLEANUP_INTERVAL", time.Hour),
			Retention:       getEnvAsDuration("EMAIL_RETENTION", 30*24*time.Hour),
			ClaimTimeout:    getEnvAsDuration("EMAIL_CLAIM_TIMEOUT", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 60),
			Window:      getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		App: AppConfig{
			Timezone: getEnv("APP_TIMEZONE", "Africa/Lagos"),
		},
	}
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Realtime.Backend {
	case RealtimeMemory, RealtimeRedis:
	case RealtimePostgres:
		if c.Database.Driver != DriverPostgres {
			return fmt.Errorf("REALTIME_BACKEND=postgres requires DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported REALTIME_BACKEND %q", c.Realtime.Backend)
	}

	switch c.Auth.Provider {
	case AuthProviderJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required for AUTH_PROVIDER=jwt")
		}
	case AuthProviderFirebase:
		if c.Auth.FirebaseProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for AUTH_PROVIDER=firebase")
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER %q", c.Auth.Provider)
	}

	return nil
}

// databaseURL prefers DATABASE_URL and otherwise assembles a postgres URL from DB_* parts.
func databaseURL() string {
	if value, exists := os.LookupEnv("DATABASE_URL"); exists && value != "" {
		return value
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(getEnv("DB_USER", "app_user"), getEnv("DB_PASSWORD", "app_password")),
		Host:   fmt.Sprintf("%s:%d", getEnv("DB_HOST", "localhost"), getEnvAsInt("DB_PORT", 5432)),
		Path:   "/" + getEnv("DB_NAME", "spendwise"),
	}
	u.RawQuery = url.Values{"sslmode": {getEnv("DB_SSLMODE", "disable")}}.Encode()
	return u.String()
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
