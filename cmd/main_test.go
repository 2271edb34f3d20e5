package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		env     string
		enabled slog.Level
		blocked slog.Level
	}{
		{env: envLocal, enabled: slog.LevelDebug, blocked: slog.LevelDebug - 1},
		{env: envDev, enabled: slog.LevelInfo, blocked: slog.LevelDebug},
		{env: envProd, enabled: slog.LevelWarn, blocked: slog.LevelInfo},
		{env: "unknown", enabled: slog.LevelError, blocked: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			log := setupLogger(tt.env)

			assert.True(t, log.Enabled(ctx, tt.enabled))
			assert.False(t, log.Enabled(ctx, tt.blocked))
		})
	}
}

func TestDropTime(t *testing.T) {
	assert.True(t, dropTime(nil, slog.String(slog.TimeKey, "now")).Equal(slog.Attr{}))

	kept := slog.String("msg", "hi")
	assert.True(t, dropTime(nil, kept).Equal(kept))
}
