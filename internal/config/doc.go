// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for ragchat.
//
// Supports TOML, JSON and YAML configuration formats, with sensible defaults,
// environment variable overrides, validation and live reload.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: chat service location, timeouts and request pacing
//   - LoggingConfig: log level, format and rotation
//   - TelemetryConfig: trace and metric export files
//   - UIConfig: theme and rendering switches
//   - UploadConfig: document upload limits
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (RAGCHAT_*)
//   - ~/.ragchat/config.toml
//   - ~/.ragchat/config.json
//   - ~/.ragchat/config.yaml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	timeout := cfg.Backend.Timeout()
//
// Reload on change:
//
//	stop, err := config.Watch(ctx, path, func(cfg *config.Config, err error) { ... })
package config
