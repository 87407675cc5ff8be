package logger

import (
	"bytes"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.info)
	assert.NotNil(t, logger.error)
	assert.NotNil(t, logger.warn)
	assert.NotNil(t, logger.debug)
}

func TestNewWithLevel_DebugDisabledByDefault(t *testing.T) {
	logger := NewWithLevel("info")
	assert.Equal(t, io.Discard, logger.debug.Writer())
}

func TestNewWithLevel_Debug(t *testing.T) {
	logger := NewWithLevel("DEBUG")
	assert.NotEqual(t, io.Discard, logger.debug.Writer())
}

func TestLogger_Formatting(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{
		info:  log.New(&buf, "[INFO] ", 0),
		warn:  log.New(&buf, "[WARN] ", 0),
		error: log.New(&buf, "[ERROR] ", 0),
		debug: log.New(io.Discard, "[DEBUG] ", 0),
	}

	logger.Info("Post %s created", "abc")
	logger.Warn("Cache unavailable: %v", "timeout")
	logger.Error("Failed to delete post %d: %s", 42, "boom")
	logger.Debug("hidden")

	assert.Equal(t, "[INFO] Post abc created\n[WARN] Cache unavailable: timeout\n[ERROR] Failed to delete post 42: boom\n", buf.String())
}
