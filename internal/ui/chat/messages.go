// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/ragchat/internal/client"
	"github.com/jeranaias/ragchat/internal/config"
	"github.com/jeranaias/ragchat/internal/model"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ConfigReloadedMsg delivers a config that changed on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// conversationsMsg carries a fetched conversation list.
type conversationsMsg struct {
	items []model.ConversationSummary
	err   error
}

// uploadDoneMsg reports a finished document upload.
type uploadDoneMsg struct {
	path   string
	result *client.UploadResult
	err    error
}

// exportDoneMsg reports a written transcript.
type exportDoneMsg struct {
	path string
	err  error
}
