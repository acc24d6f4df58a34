package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nuance/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newBufferedLogger returns a logger writing plain (uncolored) output to buf.
func newBufferedLogger(t *testing.T, buf *bytes.Buffer) *logger.Logger {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	l, ok := logger.New().(*logger.Logger)
	require.True(t, ok, "New should return a *logger.Logger")
	l.SetOutput(buf)
	return l
}

func TestLogger_Info(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferedLogger(t, &buf)

	l.Info("some message")

	assert.Contains(t, buf.String(), "some message")
}

func TestLogger_Info_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferedLogger(t, &buf)

	l.Info("installed package", "name", "http-kit", "commit", "abc1234")

	out := buf.String()
	assert.Contains(t, out, "installed package")
	assert.Contains(t, out, "name=http-kit")
	assert.Contains(t, out, "commit=abc1234")
}

func TestLogger_Warn(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferedLogger(t, &buf)

	l.Warn("some warning")

	assert.Contains(t, buf.String(), "some warning")
}

func TestLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferedLogger(t, &buf)

	l.Error(zerr.Wrap(zerr.New("root cause"), "outer failure"))

	out := buf.String()
	assert.Contains(t, out, "Error: outer failure")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "root cause")
}

func TestLogger_Error_Nil(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferedLogger(t, &buf)

	l.Error(nil)

	assert.Empty(t, buf.String(), "nil error should log nothing")
}

func TestLogger_JSONMode(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferedLogger(t, &buf)
	l.SetJSON(true)

	l.Info("structured message", "count", 3)

	line := strings.TrimSpace(buf.String())
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &record))
	assert.Equal(t, "structured message", record["msg"])
	assert.Equal(t, float64(3), record["count"])
}

func TestLogger_JSONMode_Error(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferedLogger(t, &buf)
	l.SetJSON(true)

	l.Error(zerr.New("boom"))

	line := strings.TrimSpace(buf.String())
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &record))
	assert.Equal(t, "operation failed", record["msg"])
	assert.Equal(t, "boom", record["error"])
}

func TestLogger_SetJSON_PreservesOutput(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferedLogger(t, &buf)

	l.SetJSON(true)
	l.SetJSON(false)
	l.Info("still buffered")

	assert.Contains(t, buf.String(), "still buffered")
}
