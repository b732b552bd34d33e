package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDBEnv(t *testing.T) {
	t.Setenv("POSTGRES_USER", "store")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "storefront")
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("AWS_USE_SECRETS", "")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setDBEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "5432", cfg.Postgres.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, 5*time.Minute, cfg.ProductCacheTTL)
	assert.Equal(t, 100, cfg.RateLimitPerMinute)
	assert.Equal(t, 0.10, cfg.Pricing.TaxRate)
	assert.Equal(t, 10.00, cfg.Pricing.FlatShipping)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setDBEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("TAX_RATE", "0.2")
	t.Setenv("ALLOWED_ORIGINS", "https://shop.example.com, https://admin.example.com,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 0.2, cfg.Pricing.TaxRate)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing JWT secret", func(t *testing.T) {
		setDBEnv(t)
		t.Setenv("JWT_SECRET", "")

		_, err := LoadConfig()
		assert.EqualError(t, err, "JWT_SECRET is required")
	})

	t.Run("missing database host", func(t *testing.T) {
		setDBEnv(t)
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("POSTGRES_HOST", "")

		_, err := LoadConfig()
		assert.EqualError(t, err, "database config incomplete")
	})

	t.Run("malformed duration", func(t *testing.T) {
		setDBEnv(t)
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("IDEMPOTENCY_TTL", "tomorrow")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "invalid IDEMPOTENCY_TTL")
	})

	t.Run("origins list with no entries", func(t *testing.T) {
		setDBEnv(t)
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("ALLOWED_ORIGINS", " , ,")

		_, err := LoadConfig()
		assert.EqualError(t, err, "ALLOWED_ORIGINS must list at least one origin")
	})
}

type fakeSecrets struct {
	values map[string]string
	maps   map[string]map[string]string
}

func (f fakeSecrets) GetSecret(ctx context.Context, name string) (string, error) {
	if v, ok := f.values[name]; ok {
		return v, nil
	}
	return "", errors.New("secret not found")
}

func (f fakeSecrets) GetSecretMap(ctx context.Context, name string) (map[string]string, error) {
	if m, ok := f.maps[name]; ok {
		return m, nil
	}
	return nil, errors.New("secret not found")
}

func TestApplySecrets(t *testing.T) {
	cfg := &Config{JWTSecret: "from-env"}
	cfg.Postgres.User = "env-user"
	cfg.Postgres.Host = "env-host"

	applySecrets(context.Background(), cfg, fakeSecrets{
		values: map[string]string{jwtSecretName: "from-secrets"},
		maps: map[string]map[string]string{
			dbCredentialsSecret: {"POSTGRES_USER": "rotated", "POSTGRES_PASSWORD": "pw", "POSTGRES_HOST": ""},
		},
	})

	assert.Equal(t, "from-secrets", cfg.JWTSecret)
	assert.Equal(t, "rotated", cfg.Postgres.User)
	assert.Equal(t, "pw", cfg.Postgres.Password)
	assert.Equal(t, "env-host", cfg.Postgres.Host)
}
