package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestParseDurationWithDays(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, parseDurationWithDays("7d"))
	assert.Equal(t, 15*time.Minute, parseDurationWithDays("15m"))
	assert.Equal(t, time.Duration(0), parseDurationWithDays("xd"))
	assert.Equal(t, time.Duration(0), parseDurationWithDays("garbage"))
}

func TestDurationDefault(t *testing.T) {
	assert.Equal(t, time.Hour, durationDefault("", time.Hour))
	assert.Equal(t, time.Hour, durationDefault("nope", time.Hour))
	assert.Equal(t, 48*time.Hour, durationDefault("2d", time.Hour))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, splitAndTrim(" a:9092, ,b:9092 "))
}

func TestGetEnvPanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() { getEnv("SHOP_SERVICE_SURELY_UNSET_KEY", zap.NewNop()) })

	t.Setenv("SHOP_SERVICE_PORT_TEST", "abc")
	assert.Panics(t, func() { getEnvInt("SHOP_SERVICE_PORT_TEST", zap.NewNop()) })
}

func TestLoadCleanupDefaults(t *testing.T) {
	for _, k := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE"} {
		t.Setenv(k, "x")
	}
	t.Setenv("CART_TTL", "3d")
	t.Setenv("CLEANUP_CART_INTERVAL", "")

	cfg := LoadCleanup(zap.NewNop())
	assert.Equal(t, 72*time.Hour, cfg.Cleanup.CartTTL)
	assert.Equal(t, time.Hour, cfg.Cleanup.CartInterval)
	assert.Equal(t, "x", cfg.DB.Host)
}

func TestLoadRefreshExp(t *testing.T) {
	for _, k := range []string{
		"APP_PORT", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"REDIS_ADDR", "KAFKA_BROKERS", "KAFKA_TOPIC_EMAIL", "KAFKA_TOPIC_ORDERS",
		"JWT_SECRET", "JWT_ISSUER", "JWT_AUDIENCE",
	} {
		t.Setenv(k, "x")
	}
	t.Setenv("ACCESS_EXP", "15m")
	t.Setenv("REFRESH_EXP", "")

	cfg := Load(zap.NewNop())
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExp)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.RefreshExp)

	t.Setenv("REFRESH_EXP", "2d")
	assert.Equal(t, 48*time.Hour, Load(zap.NewNop()).JWT.RefreshExp)
}
