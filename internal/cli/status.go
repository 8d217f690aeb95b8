// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Backend reachability and local settings.
//
// Command: status
// Aliases: s, ping
//
// Examples:
//   ragchat status               Check the backend and show settings
//   ragchat status --json        Same, as JSON
//
// The check fetches the conversation list, bypassing the list cache, and
// reports the round trip time. An unreachable backend exits non-zero.
package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// HandleStatus checks the backend and prints local settings.
func HandleStatus(ctx context.Context, env *Env, args Args) error {
	data := StatusData{
		Backend:    env.Client.BaseURL(),
		ConfigPath: env.ConfigPath,
		LogFile:    env.Config.Logging.File,
		Telemetry:  env.Config.Telemetry.Enabled,
		Version:    Version,
	}

	start := time.Now()
	convs, err := env.Client.RefreshConversations(ctx)
	data.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		data.Error = describeError(err)
		env.logger().Warn("status check failed", zap.Error(err))
	} else {
		data.Reachable = true
		data.Conversations = len(convs)
	}

	if args.JSON {
		if perr := NewJSONResponse("status", data).Fprint(env.out()); perr != nil {
			return perr
		}
		return err
	}

	out := env.out()
	fmt.Fprintln(out, RenderConditional(TitleStyle, "ragchat status"))
	fmt.Fprintln(out, RenderSeparator(48))
	if data.Reachable {
		fmt.Fprintln(out, RenderField("Backend", fmt.Sprintf("%s %s (%d ms)", RenderStatus("ok"), data.Backend, data.LatencyMs)))
		fmt.Fprintln(out, RenderField("Conversations", fmt.Sprintf("%d", data.Conversations)))
	} else {
		fmt.Fprintln(out, RenderField("Backend", fmt.Sprintf("%s %s", RenderStatus("error"), data.Backend)))
		fmt.Fprintln(out, RenderField("Error", RenderConditional(ErrorStyle, data.Error)))
	}

	configPath := data.ConfigPath
	if configPath == "" {
		configPath = "(defaults)"
	}
	fmt.Fprintln(out, RenderField("Config", configPath))
	fmt.Fprintln(out, RenderField("Log file", data.LogFile))
	fmt.Fprintln(out, RenderField("Telemetry", enabledLabel(data.Telemetry)))
	fmt.Fprintln(out, RenderField("Version", data.Version))
	return err
}

func enabledLabel(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
