// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ragchat/internal/ui/components"
	"github.com/jeranaias/ragchat/internal/util"
)

// View renders the chat UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	input := m.theme.InputContainer.Width(m.width).Render(m.input.View())
	status := m.renderStatusBar()

	// Toasts take rows from the transcript.
	vp := m.viewport
	toasts := components.RenderToastStack(m.toasts.Toasts(), m.theme, m.contentWidth())
	if toasts != "" {
		h := vp.Height - lipgloss.Height(toasts)
		if h < 1 {
			h = 1
		}
		vp.Height = h
	}

	main := vp.View()
	if toasts != "" {
		main = lipgloss.JoinVertical(lipgloss.Left, main, toasts)
	}
	if m.sidebarOpen {
		main = lipgloss.JoinHorizontal(lipgloss.Top,
			m.sidebar.View(m.theme, m.focus == focusSidebar), " ", main)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, main, input, status)
}

func (m Model) renderHeader() string {
	state := m.session.Snapshot()
	id := "unsaved"
	if state.ConversationID != nil {
		id = fmt.Sprintf("#%d", *state.ConversationID)
	}
	meta := m.theme.HeaderMeta.Render(" " + id)
	titleWidth := m.width - lipgloss.Width(meta) - 2
	if titleWidth < 4 {
		titleWidth = 4
	}
	title := m.theme.HeaderTitle.Render(util.TruncateWidth(state.DisplayTitle(), titleWidth))
	return m.theme.Header.Width(m.width).MaxHeight(headerHeight).Render(title + meta)
}

func (m Model) renderStatusBar() string {
	var left string
	switch {
	case m.session.IsLoading():
		left = m.theme.StatusBusy.Render(m.spinner.View() + " Working...")
	case m.statusMsg != "":
		left = m.statusMsg
	}

	bindings := m.keys.ShortHelp()
	if m.focus == focusSidebar {
		bindings = m.keys.SidebarHelp()
	}
	right := formatHelp(bindings, m.theme.ShortcutKey.Render, m.theme.ShortcutDesc.Render)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		// Narrow terminal: drop the shortcuts.
		return m.theme.StatusBar.Width(m.width).MaxHeight(statusBarHeight).Render(left)
	}
	return m.theme.StatusBar.Width(m.width).MaxHeight(statusBarHeight).
		Render(left + strings.Repeat(" ", gap) + right)
}

// renderTranscript renders every message of the active conversation.
func (m Model) renderTranscript() string {
	state := m.session.Snapshot()
	if len(state.Messages) == 0 && !state.IsLoading {
		return components.RenderWelcome(m.theme, m.viewport.Width, m.viewport.Height, m.backendURL())
	}

	opts := components.MessageOptions{
		Width:         m.markdownWidth(),
		ShowThinking:  m.showThinking,
		ShowSources:   m.showSources,
		ShowTimestamp: true,
	}
	parts := make([]string, 0, len(state.Messages)+1)
	for _, msg := range state.Messages {
		parts = append(parts, components.RenderMessage(msg, m.theme, m.markdown, opts))
	}
	if state.IsLoading {
		parts = append(parts, components.RenderLoading(m.spinner.View(), m.theme))
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) backendURL() string {
	if m.backend == nil {
		return ""
	}
	return m.backend.BaseURL()
}
