// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload" // load .env before reading the environment
	"github.com/sirupsen/logrus"
)

// Config holds every tunable the server and the historian read from the environment.
type Config struct {
	Port      string
	StaticDir string

	LogLevel  string
	LogFormat string

	// MatchStartDelay is the pause between locking a room and broadcasting gameStarted.
	MatchStartDelay   time.Duration
	DefaultMaxPlayers int

	// RoomIdleTTL of 0 disables the idle-room reaper.
	RoomIdleTTL      time.Duration
	RoomReapSchedule string

	EventRate     float64
	EventBurst    int
	MaxChatLength int

	RedisAddr  string
	RedisDB    int
	QueueName  string
	BatchSize  int
	FlushDelay time.Duration

	DatabaseURL string
}

// Load reads the configuration from environment variables, falling back to defaults.
func Load() Config {
	return Config{
		Port:      getEnv("PORT", "4000"),
		StaticDir: getEnv("STATIC_DIR", "./dist"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		MatchStartDelay:   getEnvDuration("MATCH_START_DELAY", time.Second),
		DefaultMaxPlayers: getEnvInt("DEFAULT_MAX_PLAYERS", 8),

		RoomIdleTTL:      getEnvDuration("ROOM_IDLE_TTL", 30*time.Minute),
		RoomReapSchedule: getEnv("ROOM_REAP_SCHEDULE", "@every 1m"),

		EventRate:     getEnvFloat("EVENT_RATE", 20),
		EventBurst:    getEnvInt("EVENT_BURST", 40),
		MaxChatLength: getEnvInt("MAX_CHAT_LENGTH", 500),

		RedisAddr:  os.Getenv("REDIS_ADDR"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		QueueName:  getEnv("HISTORIAN_QUEUE_NAME", "wordbattle_matches"),
		BatchSize:  getEnvInt("HISTORIAN_BATCH_SIZE", 20),
		FlushDelay: time.Duration(getEnvInt("HISTORIAN_FLUSH_MS", 500)) * time.Millisecond,

		DatabaseURL: databaseURL(),
	}
}

// databaseURL prefers DATABASE_URL and otherwise assembles a DSN from the
// POSTGRES_USER/POSTGRES_PASSWORD/PG_HOST/PG_PORT/PG_DATABASE variables.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := os.Getenv("PG_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		host,
		getEnv("PG_PORT", "5432"),
		os.Getenv("PG_DATABASE"),
	)
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logger.Warnf("unknown LOG_LEVEL %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt parses an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func getEnvFloat(key string, def float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// getEnvDuration accepts Go durations ("1s", "30m"); "0" disables.
func getEnvDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	if s == "0" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
