// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ragchat/internal/model"
)

func sampleConversation() *model.Conversation {
	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	user := model.NewUserMessage("What does the <b>policy</b> say about travel?")
	user.Timestamp = created
	reply := model.NewAssistantMessage(
		"<think>Check the handbook.</think>Travel must be **approved** in advance.\n\n<script>alert(1)</script>",
		[]model.Source{{Content: "All travel requires prior approval.", Source: "handbook.pdf"}},
	)
	reply.Timestamp = created.Add(5 * time.Second)
	return &model.Conversation{
		ID:        12,
		Title:     "Travel: policy",
		CreatedAt: created,
		UpdatedAt: reply.Timestamp,
		Messages:  []*model.Message{user, reply},
	}
}

// =============================================================================
// MARKDOWN
// =============================================================================

func TestMarkdownExporter(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleConversation())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\n"))
	assert.Contains(t, md, "title: \"Travel: policy\"")
	assert.Contains(t, md, "conversation_id: 12")
	assert.Contains(t, md, "# Travel: policy")
	assert.Contains(t, md, "### You <sub>2025-03-14 09:30:00</sub>")
	assert.Contains(t, md, "Travel must be **approved** in advance.")
	assert.Contains(t, md, "1. *handbook.pdf*: All travel requires prior approval.")
	assert.NotContains(t, md, "Check the handbook")
}

func TestMarkdownExporter_Options(t *testing.T) {
	opts := &Options{IncludeThinking: true}
	out, err := NewMarkdownExporter(opts).Export(sampleConversation())
	require.NoError(t, err)
	md := string(out)

	assert.False(t, strings.HasPrefix(md, "---"))
	assert.Contains(t, md, "> Check the handbook.")
	assert.Contains(t, md, "### You\n")
	assert.NotContains(t, md, "handbook.pdf")
}

func TestMarkdownExporter_FailedReply(t *testing.T) {
	conv := &model.Conversation{Messages: []*model.Message{
		model.NewUserMessage("hi"),
		model.NewErrorMessage(),
	}}
	out, err := NewMarkdownExporter(&Options{}).Export(conv)
	require.NoError(t, err)
	assert.Contains(t, string(out), "# New Conversation")
	assert.Contains(t, string(out), "*"+model.ErrorReply+"*")
}

func TestEscapeYAML(t *testing.T) {
	assert.Equal(t, "plain", escapeYAML("plain"))
	assert.Equal(t, `"a: b"`, escapeYAML("a: b"))
	assert.Equal(t, `"say \"hi\""`, escapeYAML(`say "hi"`))
	assert.Equal(t, `"line\nbreak"`, escapeYAML("line\nbreak"))
}

// =============================================================================
// JSON
// =============================================================================

func TestJSONExporter(t *testing.T) {
	conv := sampleConversation()
	out, err := NewJSONExporter(nil).Export(conv)
	require.NoError(t, err)

	var doc struct {
		Generator    string             `json:"generator"`
		ExportedAt   time.Time          `json:"exported_at"`
		Conversation model.Conversation `json:"conversation"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "ragchat", doc.Generator)
	assert.False(t, doc.ExportedAt.IsZero())
	assert.Equal(t, int64(12), doc.Conversation.ID)
	require.Len(t, doc.Conversation.Messages, 2)
	assert.Equal(t, conv.Messages[1].Content, doc.Conversation.Messages[1].Content)
	assert.Equal(t, "handbook.pdf", doc.Conversation.Messages[1].Sources[0].Source)
}

// =============================================================================
// HTML
// =============================================================================

func TestHTMLExporter(t *testing.T) {
	out, err := NewHTMLExporter(&Options{IncludeSources: true, IncludeMetadata: true, IncludeThinking: true, Theme: "light"}).Export(sampleConversation())
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, "<title>Travel: policy</title>")
	assert.Contains(t, page, `<body class="light-theme">`)
	assert.Contains(t, page, "#12")
	assert.Contains(t, page, "<strong>approved</strong>")
	assert.Contains(t, page, "&lt;b&gt;policy&lt;/b&gt;")
	assert.NotContains(t, page, "<script>alert(1)</script>")
	assert.Contains(t, page, "<summary>Reasoning</summary>")
	assert.Contains(t, page, "Check the handbook.")
	assert.Contains(t, page, `<span class="source-label">handbook.pdf</span>`)
}

func TestHTMLExporter_UnknownThemeFallsBack(t *testing.T) {
	out, err := NewHTMLExporter(&Options{Theme: "neon"}).Export(sampleConversation())
	require.NoError(t, err)
	assert.Contains(t, string(out), `<body class="dark-theme">`)
	assert.NotContains(t, string(out), "Reasoning")
}

// =============================================================================
// SELECTION AND FILES
// =============================================================================

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"", ".md"},
		{"markdown", ".md"},
		{".JSON", ".json"},
		{"htm", ".html"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			e, err := ForFormat(tt.format, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.ext, e.FileExtension())
		})
	}

	_, err := ForFormat("pdf", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "md, json, html")
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	e, err := ForPath(path, nil)
	require.NoError(t, err)
	written, err := ExportToFile(sampleConversation(), e, path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestExportToFile_Empty(t *testing.T) {
	_, err := ExportToFile(&model.Conversation{}, NewMarkdownExporter(nil), filepath.Join(t.TempDir(), "x.md"))
	require.ErrorIs(t, err, ErrEmptyConversation)
}

func TestDefaultFilename(t *testing.T) {
	assert.Equal(t, "travel-_policy_12.md", DefaultFilename(sampleConversation(), ".md"))
	assert.Equal(t, "new_conversation.html", DefaultFilename(&model.Conversation{}, ".html"))
}
