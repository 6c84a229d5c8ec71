package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("JSONFormat", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, "info", "json")

		logger.Info("loan_created", "loan_id", 7)

		assert.Contains(t, buf.String(), `"msg":"loan_created"`)
		assert.Contains(t, buf.String(), `"loan_id":7`)
	})

	t.Run("LevelFiltersDebug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, "warn", "text")

		logger.Info("hidden")
		logger.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}
