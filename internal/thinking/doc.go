// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package thinking splits assistant replies into a reasoning segment and the
// visible answer.
//
// Models served by the chat backend may prefix their answer with a block
// wrapped in <think>...</think> or <thinking>...</thinking>. The block is
// matched case-insensitively, the first occurrence only, and an unterminated
// opening tag swallows the rest of the reply.
//
// # Usage
//
//	seg := thinking.Parse(msg.Content)
//	if seg.HasThinking {
//	    renderThinking(seg.Thinking)
//	}
//	renderAnswer(seg.Main)
package thinking
