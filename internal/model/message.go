// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// ErrorReply is the assistant text recorded when a message exchange fails.
const ErrorReply = "Sorry, there was an error processing your request."

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// Valid reports whether r is a role the backend can store.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ParseRole converts a wire role into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// =============================================================================
// SOURCE TYPE
// =============================================================================

// Source is a retrieved passage cited by an assistant reply.
type Source struct {
	Content string `json:"content"`
	// Source is the origin label (file name, URL). Optional.
	Source string `json:"source,omitempty"`
}

// Label returns the origin label or a generic fallback.
func (s Source) Label() string {
	if s.Source == "" {
		return "unknown source"
	}
	return s.Source
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single turn in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Sources is nil unless the reply cited at least one passage.
	Sources []Source `json:"sources,omitempty"`

	// Failed marks the placeholder recorded for a failed exchange.
	Failed bool `json:"failed,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant reply. An empty sources slice is
// stored as nil.
func NewAssistantMessage(content string, sources []Source) *Message {
	msg := NewMessage(RoleAssistant, content)
	msg.Sources = CompactSources(sources)
	return msg
}

// NewErrorMessage creates the assistant placeholder for a failed exchange.
func NewErrorMessage() *Message {
	msg := NewMessage(RoleAssistant, ErrorReply)
	msg.Failed = true
	return msg
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// HasSources reports whether the message cites any passage.
func (m *Message) HasSources() bool {
	return len(m.Sources) > 0
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	c := *m
	if m.Sources != nil {
		c.Sources = make([]Source, len(m.Sources))
		copy(c.Sources, m.Sources)
	}
	return &c
}

// CloneMessages deep copies a message slice.
func CloneMessages(msgs []*Message) []*Message {
	out := make([]*Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.Clone()
	}
	return out
}

// CompactSources returns nil for an empty list and a copy otherwise.
func CompactSources(sources []Source) []Source {
	if len(sources) == 0 {
		return nil
	}
	out := make([]Source, len(sources))
	copy(out, sources)
	return out
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
