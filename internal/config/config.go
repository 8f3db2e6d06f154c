package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

const defaultJWTSecret = "change-this-to-a-secure-secret"

// Config holds all process-wide settings. It is constructed once at startup
// and passed by reference to the components that need it.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost          string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort          int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser          string `env:"POSTGRES_USER" envDefault:"tareas"`
	PostgresPass          string `env:"POSTGRES_PASSWORD" envDefault:"tareas_secret"`
	PostgresDB            string `env:"POSTGRES_DB" envDefault:"tareas_db"`
	PostgresSSL           string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	DBMaxConns            int32  `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32  `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int    `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int    `env:"DB_MAX_CONN_IDLE_MINUTES" envDefault:"30"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// JWT and cookie transport. The access token rides in AccessCookieName
	// on every authenticated request; there is no Authorization-header
	// fallback.
	JWTSecret         string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTAccessExpiry   string `env:"JWT_ACCESS_TOKEN_EXPIRY" envDefault:"300s"`
	JWTRefreshExpiry  string `env:"JWT_REFRESH_TOKEN_EXPIRY" envDefault:"86400s"`
	AccessCookieName  string `env:"ACCESS_TOKEN_COOKIE_NAME" envDefault:"access_token_cookie"`
	RefreshCookieName string `env:"REFRESH_TOKEN_COOKIE_NAME" envDefault:"refresh_token"`
	CookieSecure      bool   `env:"COOKIE_SECURE" envDefault:"false"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	if _, err := time.ParseDuration(cfg.JWTAccessExpiry); err != nil {
		return nil, fmt.Errorf("parse JWT access expiry %q: %w", cfg.JWTAccessExpiry, err)
	}
	if _, err := time.ParseDuration(cfg.JWTRefreshExpiry); err != nil {
		return nil, fmt.Errorf("parse JWT refresh expiry %q: %w", cfg.JWTRefreshExpiry, err)
	}

	// In non-development environments, require an explicitly set, strong secret.
	if cfg.Environment != "development" {
		if cfg.JWTSecret == defaultJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(cfg.JWTSecret))
		}
	}

	return cfg, nil
}

// AccessExpiry returns the parsed access token lifetime.
func (c *Config) AccessExpiry() time.Duration {
	d, _ := time.ParseDuration(c.JWTAccessExpiry)
	return d
}

// RefreshExpiry returns the parsed refresh token lifetime.
func (c *Config) RefreshExpiry() time.Duration {
	d, _ := time.ParseDuration(c.JWTRefreshExpiry)
	return d
}
