package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the gateway.
type Config struct {
	App      AppConfig
	Redis    RedisConfig
	Upstream UpstreamConfig
	Session  SessionConfig
	Logger   LoggerConfig
	Notify   NotifyConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// RedisConfig holds Redis connection values for the session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// UpstreamConfig points at the remote PharmService REST API.
type UpstreamConfig struct {
	BaseURL               string
	RequestTimeoutSeconds int
}

// SessionConfig controls the two storage tiers: durable credentials and the
// session-scoped identity snapshot.
type SessionConfig struct {
	CookieName         string
	CredentialTTLHours int
	IdentityTTLMinutes int
	CookieSecure       bool
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Format string
}

// NotifyConfig holds stub notification endpoints.
type NotifyConfig struct {
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
			Name:                  getEnv("APP_NAME", "pharmstock-gateway"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Upstream: UpstreamConfig{
			BaseURL:               getEnv("UPSTREAM_BASE_URL", "http://localhost:9000"),
			RequestTimeoutSeconds: getEnvAsInt("UPSTREAM_REQUEST_TIMEOUT_SECONDS", 15),
		},
		Session: SessionConfig{
			CookieName:         getEnv("SESSION_COOKIE_NAME", "pharmstock_session"),
			CredentialTTLHours: getEnvAsInt("SESSION_CREDENTIAL_TTL_HOURS", 720),
			IdentityTTLMinutes: getEnvAsInt("SESSION_IDENTITY_TTL_MINUTES", 120),
			CookieSecure:       getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Notify: NotifyConfig{
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
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

// RequestTimeout returns the upstream call timeout.
func (u UpstreamConfig) RequestTimeout() time.Duration {
	if u.RequestTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(u.RequestTimeoutSeconds) * time.Second
}

// CredentialTTL returns the durable-tier TTL.
func (s SessionConfig) CredentialTTL() time.Duration {
	if s.CredentialTTLHours <= 0 {
		return 720 * time.Hour
	}
	return time.Duration(s.CredentialTTLHours) * time.Hour
}

// IdentityTTL returns the session-tier TTL.
func (s SessionConfig) IdentityTTL() time.Duration {
	if s.IdentityTTLMinutes <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(s.IdentityTTLMinutes) * time.Minute
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
