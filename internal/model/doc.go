// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// These are the strongly typed forms of what the chat backend stores. Wire
// payloads are decoded and validated into them by the client package; the
// session and ui packages only ever see these types.
//
// # Key Types
//
//   - Message: one turn with a role, raw content and optional cited sources
//   - Source: a retrieved passage cited by an assistant reply
//   - Conversation: a saved conversation with its full history
//   - ConversationSummary: one entry of the saved conversation list
//
// # Usage
//
//	msg := model.NewAssistantMessage(resp.Answer, resp.Sources)
//	if msg.HasSources() {
//	    for i, src := range msg.Sources {
//	        fmt.Printf("[%d] %s\n", i+1, src.Label())
//	    }
//	}
package model
