package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 他の環境変数に引っ張られないよう全部空にする
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "GO_ENV", "DATABASE_URL", "POSTGRES_PORT", "JWT_SECRET", "JWT_TTL",
		"REDIS_URL", "SETTINGS_BACKEND", "SETTINGS_FILE", "DEFAULT_SHIPPING_COST",
		"PRICE_DRIFT_TOLERANCE", "RATE_LIMIT", "ADMIN_EMAIL", "ADMIN_PASSWORD",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, SettingsBackendFile, cfg.SettingsBackend)
	assert.Equal(t, "config/shipping_config.json", cfg.SettingsFile)
	assert.True(t, decimal.NewFromInt(500).Equal(cfg.DefaultShippingCost))
	assert.True(t, decimal.RequireFromString("0.01").Equal(cfg.PriceDriftTolerance))
	assert.Equal(t, "30-M", cfg.RateLimit)
	assert.True(t, cfg.IsDev())
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_RedisBackendWhenURLSet(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SettingsBackendRedis, cfg.SettingsBackend)
}

func TestLoad_RedisBackendNeedsURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SETTINGS_BACKEND", "redis")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidNumbers(t *testing.T) {
	cases := map[string]string{
		"POSTGRES_PORT":         "abc",
		"JWT_TTL":               "tomorrow",
		"DEFAULT_SHIPPING_COST": "five",
		"PRICE_DRIFT_TOLERANCE": "x",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv(key, val)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_NegativeShippingRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DEFAULT_SHIPPING_COST", "-1")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_AdminBootstrapPair(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")

	_, err := Load()
	require.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://u:p@db/x"}
	assert.Equal(t, "postgres://u:p@db/x", cfg.DSN())

	cfg = Config{PostgresHost: "h", PostgresPort: 5433, PostgresUser: "u", PostgresPassword: "p", PostgresDB: "d", PostgresSSLMode: "disable"}
	assert.Equal(t, "host=h port=5433 user=u password=p dbname=d sslmode=disable", cfg.DSN())
}
