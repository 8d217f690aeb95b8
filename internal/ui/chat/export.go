// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/ragchat/internal/export"
	"github.com/jeranaias/ragchat/internal/model"
	"github.com/jeranaias/ragchat/internal/session"
)

// =============================================================================
// TRANSCRIPT EXPORT
// =============================================================================

// sessionConversation snapshots the session as a conversation for export.
func sessionConversation(state session.State) *model.Conversation {
	conv := &model.Conversation{
		Title:    state.Title,
		Messages: state.Messages,
	}
	if state.ConversationID != nil {
		conv.ID = *state.ConversationID
	}
	if len(state.Messages) > 0 {
		conv.CreatedAt = state.Messages[0].Timestamp
		conv.UpdatedAt = state.Messages[len(state.Messages)-1].Timestamp
	}
	return conv
}

// WriteTranscript writes the session to path and returns the path written.
// The format follows the file extension: .json, .html, anything else is
// Markdown. An empty path derives a Markdown file name from the title.
func WriteTranscript(path string, state session.State, includeThinking, includeSources bool) (string, error) {
	opts := export.DefaultOptions()
	opts.IncludeThinking = includeThinking
	opts.IncludeSources = includeSources

	exporter, err := export.ForPath(path, opts)
	if err != nil {
		return "", err
	}
	return export.ExportToFile(sessionConversation(state), exporter, path)
}
