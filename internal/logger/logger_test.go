package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestJSONOutputCarriesMethodAndError(t *testing.T) {
	var buf bytes.Buffer
	prev := Get()
	SetDefault(New(&buf, "debug", "json"))
	t.Cleanup(func() { SetDefault(prev) })

	ExitMethodWithError("PathwayService.CreatePhase", errors.New("boom"), "template_id", "t-1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "PathwayService.CreatePhase", rec["method"])
	assert.Equal(t, "boom", rec["error"])
	assert.Equal(t, "t-1", rec["template_id"])
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	prev := Get()
	SetDefault(New(&buf, "info", "text"))
	t.Cleanup(func() { SetDefault(prev) })

	EnterMethod("X")
	DatabaseResult("select", 1, nil)
	assert.Empty(t, buf.String())

	WithActor("u-1", "admin").Info("status changed")
	assert.Contains(t, buf.String(), "user_id=u-1")
	assert.Contains(t, buf.String(), "role=admin")
}
