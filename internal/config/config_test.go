package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "DB_MAX_CONNS", "SESSION_TTL_HOURS", "KAFKA_BROKERS", "RELAY_INTERVAL_SECONDS", "SESSION_COOKIE_SECURE"} {
		t.Setenv(key, "")
	}
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 2*time.Second, cfg.RelayInterval)
	assert.False(t, cfg.CookieSecure)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, ,kafka-2:9092")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "nope")

	cfg := FromEnv()

	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}
