package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 10*time.Second, cfg.WriteWait)
	assert.Equal(t, 60*time.Second, cfg.PongWait)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, int64(4096), cfg.MaxMessageSize)
	assert.Equal(t, 256, cfg.SessionBuffer)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9000")
	t.Setenv("WS_PONG_WAIT", "30s")
	t.Setenv("WS_SESSION_BUFFER", "64")
	t.Setenv("WS_MAX_MESSAGE_SIZE", "bogus")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ServerAddr)
	assert.Equal(t, 30*time.Second, cfg.PongWait)
	assert.Equal(t, 27*time.Second, cfg.PingPeriod, "ping period tracks the overridden pong wait")
	assert.Equal(t, 64, cfg.SessionBuffer)
	assert.Equal(t, int64(4096), cfg.MaxMessageSize, "unparseable values fall back to the default")
}
