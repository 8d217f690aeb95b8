// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ragchat/internal/config"
)

// =============================================================================
// LOGGER TESTS
// =============================================================================

func TestNewLogger_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.log")
	cfg := config.Default().Logging
	cfg.File = path

	logger, closeFn, err := NewLogger(cfg, false)
	require.NoError(t, err)

	logger.Info("hello")
	logger.Debug("hidden")
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"message":"hello"`)
	assert.NotContains(t, out, "hidden")
}

func TestNewLogger_DebugFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cfg := config.Default().Logging
	cfg.File = path
	cfg.Format = "console"

	logger, closeFn, err := NewLogger(cfg, true)
	require.NoError(t, err)
	logger.Debug("visible")
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "visible"))
}

func TestNewLogger_NoFileIsNop(t *testing.T) {
	logger, closeFn, err := NewLogger(config.LoggingConfig{}, false)
	require.NoError(t, err)
	logger.Info("dropped")
	closeFn()
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "warn", "warning", "error", ""} {
		_, err := ParseLevel(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

// =============================================================================
// OTEL TESTS
// =============================================================================

func TestSetup_DisabledIsNoop(t *testing.T) {
	prov, err := Setup(context.Background(), config.TelemetryConfig{}, config.LoggingConfig{}, "test")
	require.NoError(t, err)
	require.NotNil(t, prov.Tracer)
	require.NotNil(t, prov.Meter)
	assert.NoError(t, prov.Shutdown(context.Background()))
}

func TestSetup_ExportsSpansToFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.TelemetryConfig{
		Enabled:             true,
		TraceFile:           filepath.Join(dir, "traces.log"),
		MetricsFile:         filepath.Join(dir, "metrics.log"),
		MetricsIntervalSecs: 60,
	}
	prov, err := Setup(context.Background(), cfg, config.Default().Logging, "test")
	require.NoError(t, err)

	_, span := prov.Tracer.Start(context.Background(), "unit-span")
	span.End()

	metrics, err := NewClientMetrics(prov.Meter)
	require.NoError(t, err)
	metrics.Record(context.Background(), "send", 200, 12*time.Millisecond, "")

	require.NoError(t, prov.Shutdown(context.Background()))

	data, err := os.ReadFile(cfg.TraceFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "unit-span")

	data, err = os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ragchat.client.requests")
}

func TestClientMetrics_NilSafe(t *testing.T) {
	var m *ClientMetrics
	m.Record(context.Background(), "send", 500, time.Second, "backend")
}

// =============================================================================
// TRACKER TESTS
// =============================================================================

func TestTracker_Record(t *testing.T) {
	tr := NewTracker()
	tr.Record("send", 200, 100*time.Millisecond, false)
	tr.Record("send", 500, 300*time.Millisecond, true)
	tr.Record("load", 200, 200*time.Millisecond, false)

	s := tr.Current()
	assert.Equal(t, 3, s.Requests)
	assert.Equal(t, 1, s.Failures)
	assert.Equal(t, 2, s.ByOp["send"])
	assert.Equal(t, 200*time.Millisecond, s.AverageLatency())
	assert.InDelta(t, 1.0/3.0, s.FailureRate(), 0.0001)
	require.Len(t, s.Slowest, 3)
	assert.Equal(t, 300*time.Millisecond, s.Slowest[0].Duration)
	assert.Contains(t, s.Summary(), "3 requests")
}

func TestTracker_KeepsSlowestOnly(t *testing.T) {
	tr := NewTracker()
	for i := 1; i <= maxSlowest+3; i++ {
		tr.Record("send", 200, time.Duration(i)*time.Millisecond, false)
	}
	s := tr.Current()
	require.Len(t, s.Slowest, maxSlowest)
	assert.Equal(t, time.Duration(maxSlowest+3)*time.Millisecond, s.Slowest[0].Duration)
}

func TestTracker_CurrentIsCopy(t *testing.T) {
	tr := NewTracker()
	tr.Record("send", 200, time.Millisecond, false)
	s := tr.Current()
	s.ByOp["send"] = 99
	assert.Equal(t, 1, tr.Current().ByOp["send"])
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker()
	tr.Record("send", 200, time.Millisecond, false)
	prev := tr.Reset()
	assert.Equal(t, 1, prev.Requests)
	assert.Equal(t, 0, tr.Current().Requests)
	assert.NotEqual(t, prev.ID, tr.Current().ID)
	assert.Equal(t, "no requests yet", tr.Current().Summary())
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Record("send", 200, time.Millisecond, false)
			_ = tr.Current()
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, tr.Current().Requests)
}
