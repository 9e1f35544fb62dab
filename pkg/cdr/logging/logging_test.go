package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSlogBackend(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := New(slog.New(handler)).With("lib", "libcdr.so")

	logger.Debug(context.Background(), "native call failed", "op", "SetChannelValue", "code", -3)

	out := buf.String()
	assert.Contains(t, out, "native call failed")
	assert.Contains(t, out, "lib=libcdr.so")
	assert.Contains(t, out, "op=SetChannelValue")
	assert.Contains(t, out, "code=-3")
}

func TestSlogDefault(t *testing.T) {
	require.NotNil(t, New(nil))
}

func TestZapBackend(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZap(zap.New(core)).With("identity", "cdrctl")

	ctx := context.Background()
	logger.Debug(ctx, "debug", "code", -1)
	logger.Info(ctx, "info")
	logger.Warn(ctx, "callback panicked", "kind", "channel")
	logger.Error(ctx, "error")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, "callback panicked", entries[2].Message)

	fields := entries[2].ContextMap()
	assert.Equal(t, "cdrctl", fields["identity"])
	assert.Equal(t, "channel", fields["kind"])
}

func TestNopDiscards(t *testing.T) {
	logger := Nop()
	require.NotNil(t, logger)
	logger.Warn(context.Background(), "dropped", "k", "v")
	assert.NotNil(t, logger.With("k", "v"))
}
