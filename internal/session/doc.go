// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the state of the active chat conversation.
//
// A Manager holds the message log, the backend conversation identity and
// the loading flag. Every change goes through the Manager, and readers work
// on copies returned by Snapshot or passed to Subscribe callbacks.
//
// # Key Types
//
//   - Manager: session state and the send/load/reset transitions
//   - Transport: the backend calls the Manager depends on
//   - State: an immutable snapshot for rendering
//   - SendDoneMsg, LoadDoneMsg, DeleteDoneMsg: Bubble Tea completion messages
//
// # Usage
//
//	mgr := session.NewManager(client.New(url), session.WithLogger(logger))
//	res := mgr.SendMessage(ctx, "hello")
//	state := mgr.Snapshot()
//
// Inside a Bubble Tea program use the Cmd variants, which apply the
// optimistic update synchronously and run the network call as a command:
//
//	return m, m.session.SendCmd(ctx, input)
//
// # Stale Responses
//
// Each call records the session generation it was issued under. Starting a
// new conversation or applying a loaded one advances the generation, and a
// response that arrives under an older generation is dropped.
package session
