// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry provides logging, tracing, metrics and request
// statistics for ragchat.
//
// Everything is written to rotated files so the terminal stays free for the
// chat UI.
//
// # Key Types
//
//   - NewLogger: zap logger writing JSON or console lines through lumberjack
//   - Provider: OpenTelemetry tracer and meter backed by stdout exporters
//   - ClientMetrics: request counters and latency histograms for the backend
//   - Tracker: in-memory per-session request statistics
//
// # Usage
//
//	logger, closeLog, err := telemetry.NewLogger(cfg.Logging, false)
//	defer closeLog()
//
//	prov, err := telemetry.Setup(ctx, cfg.Telemetry, version)
//	defer prov.Shutdown(context.Background())
package telemetry
