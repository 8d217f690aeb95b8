// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ClientMetrics records backend request outcomes.
type ClientMetrics struct {
	requests metric.Int64Counter
	failures metric.Int64Counter
	latency  metric.Float64Histogram
}

// NewClientMetrics registers the client instruments on meter.
func NewClientMetrics(meter metric.Meter) (*ClientMetrics, error) {
	requests, err := meter.Int64Counter("ragchat.client.requests",
		metric.WithDescription("Backend requests issued"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("ragchat.client.failures",
		metric.WithDescription("Backend requests that failed"))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("ragchat.client.duration",
		metric.WithDescription("Backend request latency"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	return &ClientMetrics{requests: requests, failures: failures, latency: latency}, nil
}

// Record adds one request outcome. kind is empty on success.
func (m *ClientMetrics) Record(ctx context.Context, op string, status int, d time.Duration, kind string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("op", op),
		attribute.Int("status", status),
	)
	m.requests.Add(ctx, 1, attrs)
	m.latency.Record(ctx, float64(d.Microseconds())/1000.0, attrs)
	if kind != "" {
		m.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("op", op),
			attribute.String("kind", kind),
		))
	}
}
