package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "MATCH_START_DELAY", "ROOM_IDLE_TTL", "EVENT_RATE", "HISTORIAN_FLUSH_MS", "REDIS_ADDR"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, time.Second, cfg.MatchStartDelay)
	assert.Equal(t, 30*time.Minute, cfg.RoomIdleTTL)
	assert.Equal(t, 20.0, cfg.EventRate)
	assert.Equal(t, 500*time.Millisecond, cfg.FlushDelay)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MATCH_START_DELAY", "250ms")
	t.Setenv("ROOM_IDLE_TTL", "0")
	t.Setenv("DEFAULT_MAX_PLAYERS", "not-a-number")
	t.Setenv("EVENT_RATE", "2.5")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.MatchStartDelay)
	assert.Zero(t, cfg.RoomIdleTTL)
	assert.Equal(t, 8, cfg.DefaultMaxPlayers, "bad ints fall back to the default")
	assert.Equal(t, 2.5, cfg.EventRate)
}

func TestNewLogger(t *testing.T) {
	cfg := Config{LogLevel: "debug", LogFormat: "json"}
	logger := cfg.NewLogger()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	cfg.LogLevel = "loud"
	assert.Equal(t, logrus.InfoLevel, cfg.NewLogger().GetLevel())
}

func TestDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PG_HOST", "")
	assert.Empty(t, Load().DatabaseURL)

	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_PORT", "")
	t.Setenv("POSTGRES_USER", "word")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("PG_DATABASE", "battle")
	assert.Equal(t, "postgres://word:secret@db:5432/battle", Load().DatabaseURL)

	t.Setenv("DATABASE_URL", "postgres://other/db")
	assert.Equal(t, "postgres://other/db", Load().DatabaseURL)
}
