package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/places-directory/internal/common/constants"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "api", "warning")

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARNING] [api]")
	assert.Contains(t, out, "shown")
	assert.False(t, log.ShouldLog(DEBUG))
	assert.True(t, log.ShouldLog(ERROR))
}

func TestLogger_FieldsAreSortedAndTraceIDIncluded(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "api", "debug")

	ctx := context.WithValue(context.Background(), constants.TraceIDKey, "abc123")
	log.WithFields(ctx, Fields{"user_id": "u1", "action": "login"}).Info("login success")

	out := buf.String()
	assert.Contains(t, out, "[trace_id=abc123 action=login user_id=u1]")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "login success"))
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "", "error")

	log.Info("before")
	log.SetLevel("debug")
	log.Debugf("after %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "before")
	assert.Contains(t, out, "[DEBUG]")
	assert.Contains(t, out, "after 1")
}

func TestNew_WritesRotatingFile(t *testing.T) {
	dir := t.TempDir()

	log, err := New(dir, "api", "info")
	require.NoError(t, err)

	log.Info("persisted")

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "persisted")
}

func TestParseLevel_DefaultsToInfo(t *testing.T) {
	assert.Equal(t, INFO, parseLevel("verbose"))
	assert.Equal(t, WARNING, parseLevel(" warn "))
	assert.Equal(t, CRITICAL, parseLevel("CRITICAL"))
}
