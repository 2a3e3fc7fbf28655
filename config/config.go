package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries the relay's runtime settings. Every field has a working
// default so the binary starts with no environment at all.
type Config struct {
	ServerAddr string
	LogLevel   string

	// Websocket keepalive and write pacing.
	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration

	// Maximum inbound frame size in bytes.
	MaxMessageSize int64

	// Outbound envelopes buffered per session before deliveries to that
	// session start being dropped.
	SessionBuffer int
}

func Load() Config {
	cfg := Config{
		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		WriteWait:      getEnvDuration("WS_WRITE_WAIT", 10*time.Second),
		PongWait:       getEnvDuration("WS_PONG_WAIT", 60*time.Second),
		MaxMessageSize: getEnvInt64("WS_MAX_MESSAGE_SIZE", 4096),
		SessionBuffer:  int(getEnvInt64("WS_SESSION_BUFFER", 256)),
	}
	// Pings must fire comfortably before the peer's pong deadline lapses.
	cfg.PingPeriod = cfg.PongWait * 9 / 10
	return cfg
}

// getEnv returns the env var or a default.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvDuration parses a duration env var (e.g. "30s") with a fallback.
func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

// getEnvInt64 parses an integer env var with a fallback.
func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}
