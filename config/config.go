package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Trust    TrustConfig
	Stripe   StripeConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// TrustConfig tunes the default risk scorer. Amounts are in minor units.
type TrustConfig struct {
	DenyBelowScore  float64
	ApprovalAmount  int64
	NewTenantAmount int64
	MinSample       int64
}

// StripeConfig configures the card processor adapter.
type StripeConfig struct {
	BaseURL   string
	SecretKey string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         envOr("PORT", "8080"),
			Env:          envOr("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envOr("DATABASE_DSN", "fieldpay:fieldpay@tcp(localhost:3306)/fieldpay?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  envOr("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: envOr("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "fieldpay",
		},
		Trust: TrustConfig{
			DenyBelowScore:  envOrFloat("TRUST_DENY_BELOW_SCORE", 30),
			ApprovalAmount:  envOrInt64("TRUST_APPROVAL_AMOUNT", 500000),
			NewTenantAmount: envOrInt64("TRUST_NEW_TENANT_AMOUNT", 100000),
			MinSample:       5,
		},
		Stripe: StripeConfig{
			BaseURL:   envOr("STRIPE_BASE_URL", "https://api.stripe.com"),
			SecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		},
		Logging: LoggingConfig{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "console"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envOrFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
