// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sort"
	"strings"
	"time"
)

// DefaultTitle is used when the backend creates a conversation without
// naming it.
const DefaultTitle = "New Conversation"

// =============================================================================
// CONVERSATION TYPES
// =============================================================================

// ConversationSummary is one entry of the saved conversation list.
type ConversationSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayTitle returns the title or DefaultTitle when it is blank.
func (c ConversationSummary) DisplayTitle() string {
	return DisplayTitle(c.Title)
}

// Conversation is a saved conversation with its full message history.
type Conversation struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Messages  []*Message `json:"messages"`
}

// Summary returns the list entry for c.
func (c *Conversation) Summary() ConversationSummary {
	return ConversationSummary{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// DisplayTitle returns the title or DefaultTitle when it is blank.
func (c *Conversation) DisplayTitle() string {
	return DisplayTitle(c.Title)
}

// MessageCount returns the number of messages in the conversation.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// =============================================================================
// HELPERS
// =============================================================================

// DisplayTitle returns title trimmed, or DefaultTitle when it is blank.
func DisplayTitle(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return DefaultTitle
}

// SortByRecent orders summaries by UpdatedAt, newest first. Ties fall back
// to the higher ID.
func SortByRecent(list []ConversationSummary) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID > b.ID
	})
}
