// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ragchat/internal/model"
	"github.com/jeranaias/ragchat/internal/thinking"
	"github.com/jeranaias/ragchat/internal/ui/styles"
	"github.com/jeranaias/ragchat/internal/util"
)

// maxExcerptWidth caps the source excerpt shown under an answer.
const maxExcerptWidth = 160

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageOptions controls how a message is drawn.
type MessageOptions struct {
	Width         int
	ShowThinking  bool
	ShowSources   bool
	ShowTimestamp bool
}

// RenderMessage draws one message. Assistant content is split into its
// thinking segment and visible answer.
func RenderMessage(msg *model.Message, theme *styles.Theme, md *Markdown, opts MessageOptions) string {
	if msg == nil {
		return ""
	}
	width := opts.Width
	if width < 24 {
		width = 24
	}
	// Border, padding and the side margin.
	inner := width - 8

	header := theme.RoleLabel.Render(msg.Role.DisplayName())
	if opts.ShowTimestamp && !msg.Timestamp.IsZero() {
		header += " " + theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}

	var body string
	var bubble lipgloss.Style
	switch {
	case msg.Role == model.RoleUser:
		body = theme.Renderer().NewStyle().Width(inner).Render(msg.Content)
		bubble = theme.UserBubble
	case msg.Failed:
		body = theme.ErrorStyle.Render(styles.StatusIndicators.Error) + " " + msg.Content
		bubble = theme.ErrorBubble
	default:
		body = renderAnswer(msg, theme, md, inner, opts)
		bubble = theme.AssistantBubble
	}

	return header + "\n" + bubble.Render(body)
}

func renderAnswer(msg *model.Message, theme *styles.Theme, md *Markdown, width int, opts MessageOptions) string {
	seg := thinking.Parse(msg.Content)

	var parts []string
	if seg.HasThinking {
		parts = append(parts, renderThinking(seg.Thinking, theme, width, opts.ShowThinking))
	}
	parts = append(parts, md.Render(seg.Main, width))
	if opts.ShowSources && msg.HasSources() {
		parts = append(parts, RenderSources(msg.Sources, theme, width))
	}
	return strings.Join(parts, "\n")
}

func renderThinking(text string, theme *styles.Theme, width int, expanded bool) string {
	if !expanded {
		lines := strings.Count(text, "\n") + 1
		return theme.ThinkingHidden.Render(fmt.Sprintf("[thinking hidden, %d lines] ctrl+t to show", lines))
	}
	label := theme.ThinkingLabel.Render("thinking")
	body := theme.ThinkingText.Width(width - 2).Render(text)
	return theme.ThinkingBox.Render(label + "\n" + body)
}

// RenderSources lists cited passages with their origin labels.
func RenderSources(sources []model.Source, theme *styles.Theme, width int) string {
	var sb strings.Builder
	sb.WriteString(theme.SourceLabel.Render(fmt.Sprintf("Sources (%d)", len(sources))))
	excerptWidth := width - 6
	if excerptWidth > maxExcerptWidth {
		excerptWidth = maxExcerptWidth
	}
	for i, src := range sources {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("[%d] %s", i+1, src.Label()))
		if excerpt := util.SingleLine(src.Content); excerpt != "" {
			sb.WriteString("\n")
			sb.WriteString(theme.SourceExcerpt.Render(util.TruncateWidth(excerpt, excerptWidth)))
		}
	}
	return theme.SourceBox.Width(width).Render(sb.String())
}

// RenderLoading draws the pending-answer placeholder.
func RenderLoading(spinnerView string, theme *styles.Theme) string {
	return theme.RoleLabel.Render(model.RoleAssistant.DisplayName()) + "\n" +
		theme.Spinner.Render(spinnerView) + " " + theme.StatusBusy.Render("Waiting for answer")
}
