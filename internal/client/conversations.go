// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jeranaias/ragchat/internal/model"
)

const listCacheKey = "conversations"

// =============================================================================
// CONVERSATION LIST
// =============================================================================

// ListConversations returns the saved conversations, newest first. Results
// are cached when a list TTL is configured.
func (c *Client) ListConversations(ctx context.Context) ([]model.ConversationSummary, error) {
	if c.lists != nil {
		if cached, ok := c.lists.Get(listCacheKey); ok {
			return copySummaries(cached.([]model.ConversationSummary)), nil
		}
	}

	body, err := c.do(ctx, "list", http.MethodGet, "/api/conversations", nil, "")
	if err != nil {
		return nil, err
	}

	list, err := decodeConversationList(body)
	if err != nil {
		return nil, &TransportError{Kind: DecodeError, Op: "list", Err: err}
	}

	if c.lists != nil {
		c.lists.Set(listCacheKey, list, gocache.DefaultExpiration)
	}
	return copySummaries(list), nil
}

// RefreshConversations drops the cached list and fetches it again.
func (c *Client) RefreshConversations(ctx context.Context) ([]model.ConversationSummary, error) {
	c.InvalidateList()
	return c.ListConversations(ctx)
}

// InvalidateList drops the cached conversation list.
func (c *Client) InvalidateList() {
	if c.lists != nil {
		c.lists.Delete(listCacheKey)
	}
}

// =============================================================================
// CREATE / DELETE
// =============================================================================

// CreateConversation creates an empty conversation with the given title.
func (c *Client) CreateConversation(ctx context.Context, title string) (model.ConversationSummary, error) {
	payload, err := json.Marshal(createRequest{Title: title})
	if err != nil {
		return model.ConversationSummary{}, &TransportError{Kind: DecodeError, Op: "create", Err: err}
	}

	body, err := c.do(ctx, "create", http.MethodPost, "/api/conversations", bytes.NewReader(payload), "application/json")
	if err != nil {
		return model.ConversationSummary{}, err
	}

	var wire wireConversation
	if err := json.Unmarshal(body, &wire); err != nil {
		return model.ConversationSummary{}, &TransportError{Kind: DecodeError, Op: "create", Err: err}
	}
	summary, err := wire.summary()
	if err != nil {
		return model.ConversationSummary{}, &TransportError{Kind: DecodeError, Op: "create", Err: err}
	}

	c.InvalidateList()
	return summary, nil
}

// DeleteConversation deletes a conversation. A missing conversation
// yields an error matching ErrNotFound.
func (c *Client) DeleteConversation(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, "delete", http.MethodDelete, conversationPath(id), nil, ""); err != nil {
		return err
	}
	c.InvalidateList()
	return nil
}

func copySummaries(in []model.ConversationSummary) []model.ConversationSummary {
	out := make([]model.ConversationSummary, len(in))
	copy(out, in)
	return out
}
