package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	assert.True(t, NewLogger(true, "").Core().Enabled(zapcore.DebugLevel))
	prod := NewLogger(false, "")
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, prod.Core().Enabled(zapcore.InfoLevel))
}

func TestNewLogger_WritesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cutout.log")
	logger := NewLogger(false, path)
	logger.Info("composited", zap.String("format", "PNG"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"composited"`)
	assert.Contains(t, string(data), `"format":"PNG"`)
}

func TestEncoderConfigs(t *testing.T) {
	t.Parallel()

	cfg := NewEncoderConfig()
	assert.Equal(t, "timestamp", cfg.TimeKey)
	assert.Equal(t, "message", cfg.MessageKey)
	assert.NotNil(t, cfg.EncodeLevel)

	console := NewConsoleEncoderConfig()
	assert.Equal(t, cfg.TimeKey, console.TimeKey)
	assert.NotNil(t, console.EncodeTime)
}

type captureEncoder struct {
	zapcore.PrimitiveArrayEncoder
	got string
}

func (c *captureEncoder) AppendString(s string) { c.got = s }

func TestShortTimeEncoder(t *testing.T) {
	t.Parallel()

	enc := &captureEncoder{}
	shortTimeEncoder(time.Date(2024, 1, 15, 14, 30, 45, 123000000, time.UTC), enc)
	assert.Equal(t, "14:30:45.123", enc.got)
}
