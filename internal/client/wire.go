// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/ragchat/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID *int64 `json:"conversation_id,omitempty"`
}

type chatResponse struct {
	Answer         *string      `json:"answer"`
	ConversationID *int64       `json:"conversation_id"`
	Title          *string      `json:"title"`
	Sources        []wireSource `json:"sources"`
}

type wireSource struct {
	Content *string `json:"content"`
	Source  *string `json:"source"`
}

type wireMessage struct {
	Role      string       `json:"role"`
	Content   *string      `json:"content"`
	CreatedAt string       `json:"created_at"`
	Sources   []wireSource `json:"sources"`
}

type wireConversation struct {
	ID        *int64        `json:"id"`
	Title     *string       `json:"title"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
	Messages  []wireMessage `json:"messages"`
}

type createRequest struct {
	Title string `json:"title"`
}

// =============================================================================
// DECODED TYPES
// =============================================================================

// ChatReply is the decoded answer to a sent message.
type ChatReply struct {
	Answer string
	// ConversationID is the backend identifier of the conversation the
	// exchange was stored in. Nil when the backend did not report one.
	ConversationID *int64
	// Title is empty when the backend did not supply one.
	Title string
	// Sources is nil when no passage was cited.
	Sources []model.Source
}

// =============================================================================
// DECODE / VALIDATE
// =============================================================================

var errMissingField = errors.New("missing required field")

func decodeChatResponse(body []byte) (*ChatReply, error) {
	var wire chatResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if wire.Answer == nil {
		return nil, fmt.Errorf("%w: answer", errMissingField)
	}
	sources, err := decodeSources(wire.Sources)
	if err != nil {
		return nil, err
	}

	reply := &ChatReply{
		Answer:         *wire.Answer,
		ConversationID: wire.ConversationID,
		Sources:        sources,
	}
	if wire.Title != nil {
		reply.Title = strings.TrimSpace(*wire.Title)
	}
	return reply, nil
}

func decodeConversation(body []byte) (*model.Conversation, error) {
	var wire wireConversation
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode conversation: %w", err)
	}
	return wire.toModel()
}

func decodeConversationList(body []byte) ([]model.ConversationSummary, error) {
	var wire []wireConversation
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode conversation list: %w", err)
	}

	out := make([]model.ConversationSummary, 0, len(wire))
	for i, w := range wire {
		s, err := w.summary()
		if err != nil {
			return nil, fmt.Errorf("conversation %d: %w", i, err)
		}
		out = append(out, s)
	}
	model.SortByRecent(out)
	return out, nil
}

func (w wireConversation) summary() (model.ConversationSummary, error) {
	if w.ID == nil {
		return model.ConversationSummary{}, fmt.Errorf("%w: id", errMissingField)
	}
	s := model.ConversationSummary{ID: *w.ID}
	if w.Title != nil {
		s.Title = *w.Title
	}
	var err error
	if s.CreatedAt, err = parseTimestamp(w.CreatedAt); err != nil {
		return s, fmt.Errorf("created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTimestamp(w.UpdatedAt); err != nil {
		return s, fmt.Errorf("updated_at: %w", err)
	}
	return s, nil
}

func (w wireConversation) toModel() (*model.Conversation, error) {
	conv := &model.Conversation{Messages: make([]*model.Message, 0, len(w.Messages))}
	if w.ID != nil {
		conv.ID = *w.ID
	}
	if w.Title != nil {
		conv.Title = *w.Title
	}
	var err error
	if conv.CreatedAt, err = parseTimestamp(w.CreatedAt); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	if conv.UpdatedAt, err = parseTimestamp(w.UpdatedAt); err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}

	for i, wm := range w.Messages {
		msg, err := wm.toModel()
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		conv.Messages = append(conv.Messages, msg)
	}
	return conv, nil
}

func (w wireMessage) toModel() (*model.Message, error) {
	role, err := model.ParseRole(w.Role)
	if err != nil {
		return nil, err
	}
	if w.Content == nil {
		return nil, fmt.Errorf("%w: content", errMissingField)
	}
	sources, err := decodeSources(w.Sources)
	if err != nil {
		return nil, err
	}

	msg := model.NewMessage(role, *w.Content)
	if role == model.RoleAssistant {
		msg.Sources = sources
	}
	if ts, err := parseTimestamp(w.CreatedAt); err == nil && !ts.IsZero() {
		msg.Timestamp = ts
	}
	return msg, nil
}

// decodeSources validates wire sources. An empty list decodes to nil.
func decodeSources(wire []wireSource) ([]model.Source, error) {
	if len(wire) == 0 {
		return nil, nil
	}
	out := make([]model.Source, 0, len(wire))
	for i, ws := range wire {
		if ws.Content == nil {
			return nil, fmt.Errorf("source %d: %w: content", i, errMissingField)
		}
		if strings.TrimSpace(*ws.Content) == "" {
			return nil, fmt.Errorf("source %d: empty content", i)
		}
		src := model.Source{Content: *ws.Content}
		if ws.Source != nil {
			src.Source = *ws.Source
		}
		out = append(out, src)
	}
	return out, nil
}

// timestampLayouts accepts RFC 3339 and the naive ISO-8601 form Python's
// datetime.isoformat produces.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp parses a backend timestamp. Empty input yields the zero time.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
