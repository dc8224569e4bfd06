package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogsmith/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json output with static attrs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Level: "info", Format: "json"}, &buf,
			slog.String("service", "blogsmith"))
		log.Info("started")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		require.Equal(t, "started", record["msg"])
		require.Equal(t, "blogsmith", record["service"])
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Level: "warn"}, &buf)
		log.Info("dropped")
		log.Warn("kept")

		out := buf.String()
		require.NotContains(t, out, "dropped")
		require.Contains(t, out, "kept")
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Format: "text"}, &buf)
		log.Info("hello")
		require.True(t, strings.Contains(buf.String(), "msg=hello"))
	})

	t.Run("unknown values fall back", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Level: "loud", Format: "yaml"}, &buf)
		log.Info("fallback")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		require.Equal(t, "fallback", record["msg"])
	})
}
