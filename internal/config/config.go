package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "dev-secret"

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	Storage    StorageConfig
	Cloudinary CloudinaryConfig
	Notify     NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	BodyLimitBytes        int
	AllowedOrigins        []string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN             string
	ApplicationName string
	MaxConns        int32
	MinConns        int32
	RunMigrations   bool
	MigrationsDir   string
	ConnMaxIdleSec  int32
	ConnMaxLifeSec  int32
	// StatementTimeoutMs is sent as statement_timeout on every connection.
	StatementTimeoutMs int
	HealthCheckSec     int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	LedgerKey string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines session token and password parameters.
type AuthConfig struct {
	JWTSecret         string
	SessionTTLSeconds int
	CookieName        string
	BcryptCost        int
}

// StorageConfig controls local staging of uploaded files.
type StorageConfig struct {
	StagingDir        string
	StaleAfterMinutes int
	SweepIntervalSecs int
}

// CloudinaryConfig holds object store credentials.
type CloudinaryConfig struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// NotificationConfig holds outbound notification settings. Empty values
// disable the corresponding channel.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "job-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("PORT", getEnv("APP_PORT", "5001")),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			BodyLimitBytes:        getEnvAsInt("HTTP_BODY_LIMIT_BYTES", 10*1024*1024),
			AllowedOrigins:        getEnvAsList("CORS_ALLOWED_ORIGINS"),
		},
		Postgres: PostgresConfig{
			DSN:                os.Getenv("POSTGRES_DSN"),
			ApplicationName:    getEnv("POSTGRES_APPLICATION_NAME", "job-portal"),
			MaxConns:           int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:           int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:      getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:      getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec:     int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec:     int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			StatementTimeoutMs: getEnvAsInt("POSTGRES_STATEMENT_TIMEOUT_MS", 5000),
			HealthCheckSec:     int32(getEnvAsInt("POSTGRES_HEALTH_CHECK_SECONDS", 30)),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			LedgerKey: getEnv("REDIS_STAGING_LEDGER_KEY", "job-portal:staging"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", defaultJWTSecret),
			SessionTTLSeconds: getEnvAsInt("AUTH_SESSION_TTL_SECONDS", 86400),
			CookieName:        getEnv("AUTH_COOKIE_NAME", "token"),
			BcryptCost:        getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Storage: StorageConfig{
			StagingDir:        getEnv("UPLOAD_STAGING_DIR", "uploads"),
			StaleAfterMinutes: getEnvAsInt("UPLOAD_STALE_AFTER_MINUTES", 30),
			SweepIntervalSecs: getEnvAsInt("UPLOAD_SWEEP_INTERVAL_SECONDS", 300),
		},
		Cloudinary: CloudinaryConfig{
			URL:       os.Getenv("CLOUDINARY_URL"),
			CloudName: os.Getenv("CLOUD_NAME"),
			APIKey:    os.Getenv("API_KEY"),
			APISecret: os.Getenv("API_SECRET"),
			Folder:    getEnv("CLOUDINARY_FOLDER", "job-portal"),
		},
		Notify: NotificationConfig{
			EmailFrom:  os.Getenv("NOTIFY_EMAIL_FROM"),
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that are unsafe to serve traffic with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.App.Env == "production" {
		if c.Auth.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be set in production")
		}
		if !c.Cloudinary.Configured() {
			return errors.New("cloudinary credentials must be set in production")
		}
	}
	if c.Storage.StagingDir == "" {
		return errors.New("UPLOAD_STAGING_DIR must not be empty")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SessionTTL returns the lifetime of an issued session token.
func (a AuthConfig) SessionTTL() time.Duration {
	if a.SessionTTLSeconds <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.SessionTTLSeconds) * time.Second
}

// StaleAfter is the age past which a staged file is considered orphaned.
func (s StorageConfig) StaleAfter() time.Duration {
	if s.StaleAfterMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(s.StaleAfterMinutes) * time.Minute
}

// SweepInterval is how often the staging sweeper runs.
func (s StorageConfig) SweepInterval() time.Duration {
	if s.SweepIntervalSecs <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(s.SweepIntervalSecs) * time.Second
}

// Configured reports whether enough credentials are present to reach Cloudinary.
func (c CloudinaryConfig) Configured() bool {
	if c.URL != "" {
		return true
	}
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
