// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea program for the ragchat TUI.
//
// The Model renders a session.Manager snapshot: a header with the
// conversation title, the message viewport, an optional conversation
// sidebar and the input line. All state changes go through the session
// manager; the Model only keeps view state such as focus, scroll position
// and toasts.
//
// # Key Bindings
//
//   - enter: send the input, or open the selected conversation
//   - tab: show the conversation sidebar and move focus to it
//   - ctrl+n: start a new conversation
//   - ctrl+t: show or hide thinking segments
//   - ctrl+o: show or hide sources
//   - ctrl+y: copy the last answer
//   - ctrl+r: retry a failed load, or refresh the conversation list
//   - d: delete the selected conversation (press twice)
//   - esc: dismiss a toast or leave the sidebar
//   - ctrl+c: quit
//
// # Slash Commands
//
// Input starting with "/" is a command: /new, /upload, /export, /thinking,
// /sources, /refresh, /status, /help and /quit.
package chat
