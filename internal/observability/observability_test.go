package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/couchcryptid/asteroid-impact-sim/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Levels(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	ctx := context.Background()

	tests := []struct {
		level   string
		enabled slog.Level
		dropped slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 4},
		{"WARN", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"nonsense", slog.LevelInfo, slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(&config.Config{LogLevel: tt.level, LogFormat: "text"})
			assert.True(t, logger.Enabled(ctx, tt.enabled))
			assert.False(t, logger.Enabled(ctx, tt.dropped))
			assert.True(t, slog.Default().Enabled(ctx, tt.enabled), "installed as default")
		})
	}
}

func TestMetrics_Collectors(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(m.Simulations))

	m.Simulations.WithLabelValues("manual").Inc()
	m.Simulations.WithLabelValues("manual").Inc()

	assert.InDelta(t, 2, testutil.ToFloat64(m.Simulations.WithLabelValues("manual")), 0)
	assert.Len(t, m.collectors(), 15)
}
