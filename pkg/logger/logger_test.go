package logger

import (
	"college_chatbot_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, levelFor(&config.Config{Server: config.ServerConfig{Mode: "debug"}}))
	assert.Equal(t, zap.InfoLevel, levelFor(&config.Config{Server: config.ServerConfig{Mode: "release"}}))

	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}, Log: config.LogConfig{Level: "warn"}}
	assert.Equal(t, zap.WarnLevel, levelFor(cfg))

	cfg.Log.Level = "loud"
	assert.Equal(t, zap.DebugLevel, levelFor(cfg))
}

func TestRotatorDefaults(t *testing.T) {
	r := rotator(config.LogConfig{MaxSizeMB: 10})
	assert.Equal(t, "logs/app.log", r.Filename)
	assert.Equal(t, 10, r.MaxSize)
	assert.True(t, r.Compress)
}
