package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	l := Init("debug", false, &buf)
	t.Cleanup(func() { Init("info", false, nil) })

	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())

	Info().Str("component", "test").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "test", entry["component"])
	assert.NotEmpty(t, entry["time"])
}

func TestInit_InvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := Init("loud", false, &buf)
	t.Cleanup(func() { Init("info", false, nil) })

	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
	assert.Contains(t, buf.String(), "invalid log level")
}

func TestCtx(t *testing.T) {
	t.Run("falls back to global", func(t *testing.T) {
		assert.Same(t, Get(), Ctx(context.Background()))
		//nolint:staticcheck
		assert.Same(t, Get(), Ctx(nil))
	})

	t.Run("returns stored logger", func(t *testing.T) {
		var buf bytes.Buffer
		l := zerolog.New(&buf).With().Str("request_id", "abc").Logger()
		ctx := WithLogger(context.Background(), &l)

		Ctx(ctx).Info().Msg("scoped")

		assert.Contains(t, buf.String(), `"request_id":"abc"`)
	})
}
