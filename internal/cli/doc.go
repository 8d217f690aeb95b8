// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the line-mode commands.
//
// Without a command ragchat starts the TUI. The commands here cover the
// same service for scripts and plain terminals.
//
// # Key Types
//
//   - Command: enumeration of the available commands
//   - Args: parsed global and command-specific flags
//   - Env: configuration, backend client and I/O shared by every handler
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//	    err = cli.HandleAsk(ctx, env, args)
//	case cli.CmdChat:
//	    err = cli.HandleChat(ctx, env, args)
//	}
//	if err != nil {
//	    cli.DisplayError(os.Stderr, cmd.String(), err, args.JSON)
//	    os.Exit(cli.GetExitCode(err))
//	}
//
// # Commands
//
//   - ask: one question, answer on stdout
//   - chat: interactive loop with history and slash commands
//   - list, show, delete: saved conversations
//   - upload: add documents to the knowledge base
//   - status: backend reachability and local settings
//   - config: show, get, set and initialize the configuration
//
// Every command accepts --json for machine-readable output.
package cli
