package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/database"
	aws_pkg "github.com/cetler74/modern-e-commerce-platform/pkg/aws"
	"github.com/cetler74/modern-e-commerce-platform/services"
)

type Config struct {
	Port   string
	AppEnv string

	Postgres database.PostgresConfig

	JWTSecret string
	JWTTTL    time.Duration

	RedisURL        string
	IdempotencyTTL  time.Duration
	ProductCacheTTL time.Duration

	OrderTopicArn        string
	SubscriptionTopicArn string
	OrderEventsQueueURL  string
	ProductMediaBucket   string
	AnalyticsTable       string

	AllowedOrigins     []string
	RateLimitPerMinute int
	Pricing            services.Pricing
}

// secretsGetter is the part of aws_pkg.SecretsClient used to override credentials.
type secretsGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
	GetSecretMap(ctx context.Context, name string) (map[string]string, error)
}

const (
	dbCredentialsSecret = "storefront/DB_CREDENTIALS"
	jwtSecretName       = "storefront/JWT_SECRET"
)

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "development"),
		Postgres: database.PostgresConfig{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		},
		JWTSecret:            os.Getenv("JWT_SECRET"),
		RedisURL:             os.Getenv("REDIS_URL"),
		OrderTopicArn:        os.Getenv("ORDER_SNS_TOPIC_ARN"),
		SubscriptionTopicArn: os.Getenv("SUBSCRIPTION_SNS_TOPIC_ARN"),
		OrderEventsQueueURL:  os.Getenv("ORDER_EVENTS_QUEUE_URL"),
		ProductMediaBucket:   os.Getenv("PRODUCT_MEDIA_BUCKET"),
		AnalyticsTable:       os.Getenv("ANALYTICS_DYNAMODB_TABLE"),
		AllowedOrigins:       splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.IdempotencyTTL, err = getDuration("IDEMPOTENCY_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ProductCacheTTL, err = getDuration("PRODUCT_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 100); err != nil {
		return nil, err
	}
	if cfg.Pricing.TaxRate, err = getFloat("TAX_RATE", services.DefaultPricing.TaxRate); err != nil {
		return nil, err
	}
	if cfg.Pricing.FlatShipping, err = getFloat("FLAT_SHIPPING", services.DefaultPricing.FlatShipping); err != nil {
		return nil, err
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := aws_pkg.LoadAWSConfig(context.Background()); err == nil {
			applySecrets(context.Background(), cfg, aws_pkg.NewSecretsClient(awsCfg))
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applySecrets overrides DB credentials and the JWT secret with values found in Secrets Manager.
// Missing or unreadable secrets leave the environment values in place.
func applySecrets(ctx context.Context, cfg *Config, sm secretsGetter) {
	if m, err := sm.GetSecretMap(ctx, dbCredentialsSecret); err == nil {
		if v, ok := m["POSTGRES_USER"]; ok && v != "" {
			cfg.Postgres.User = v
		}
		if v, ok := m["POSTGRES_PASSWORD"]; ok && v != "" {
			cfg.Postgres.Password = v
		}
		if v, ok := m["POSTGRES_DB"]; ok && v != "" {
			cfg.Postgres.DBName = v
		}
		if v, ok := m["POSTGRES_HOST"]; ok && v != "" {
			cfg.Postgres.Host = v
		}
		if v, ok := m["POSTGRES_PORT"]; ok && v != "" {
			cfg.Postgres.Port = v
		}
	}
	if secret, err := sm.GetSecret(ctx, jwtSecretName); err == nil && secret != "" {
		cfg.JWTSecret = secret
	}
}

func (c *Config) validate() error {
	if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" || c.Postgres.Host == "" {
		return fmt.Errorf("database config incomplete")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS must list at least one origin")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
