package logger_test

import (
	"testing"

	"inventory-sync/core/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   logger.Config
		level zap.AtomicLevel
	}{
		{"DebugConsole", logger.Config{Level: "debug", Format: "console"}, zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"InfoJSON", logger.Config{Level: "info", Format: "json"}, zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"Warn", logger.Config{Level: "warn"}, zap.NewAtomicLevelAt(zap.WarnLevel)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.New(&tt.cfg)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.level.Level()))
			assert.False(t, l.Core().Enabled(tt.level.Level()-1))
		})
	}

	_, err := logger.New(&logger.Config{Level: "loud"})
	assert.Error(t, err)
}
