// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/ragchat/internal/session"
	"github.com/jeranaias/ragchat/internal/thinking"
	"github.com/jeranaias/ragchat/internal/ui/components"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case session.StateChangedMsg:
		m.sidebar.SetActive(msg.State.ConversationID)
		m.refreshViewport()
		return m, nil

	case session.SendDoneMsg:
		return m.handleSendDone(msg)

	case session.LoadDoneMsg:
		return m.handleLoadDone(msg)

	case session.DeleteDoneMsg:
		return m.handleDeleteDone(msg)

	case conversationsMsg:
		if msg.err != nil {
			m.sidebar.Loading = false
			m.sidebar.Err = userMessage(msg.err)
			return m, nil
		}
		m.sidebar.SetItems(msg.items)
		return m, nil

	case uploadDoneMsg:
		name := filepath.Base(msg.path)
		if msg.err != nil {
			return m.toast(components.NewErrorToast(fmt.Sprintf("Upload of %s failed: %s", name, userMessage(msg.err))))
		}
		text := "Uploaded " + msg.result.Filename
		if msg.result.Message != "" {
			text += ": " + msg.result.Message
		}
		return m.toast(components.NewSuccessToast(text))

	case exportDoneMsg:
		if msg.err != nil {
			return m.toast(components.NewErrorToast("Export failed: " + msg.err.Error()))
		}
		return m.toast(components.NewSuccessToast("Saved transcript to " + msg.path))

	case ConfigReloadedMsg:
		if msg.Err != nil {
			return m.toast(components.NewWarningToast("Config not reloaded: " + msg.Err.Error()))
		}
		m.applyConfig(msg.Config)
		return m.toast(components.NewStatusToast("Config reloaded"))

	case components.ToastTickMsg:
		if m.toasts.Tick() {
			return m, components.ToastTickCmd()
		}
		m.toastTicking = false
		return m, nil

	case spinner.TickMsg:
		if !m.session.IsLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshViewport()
		return m, cmd
	}

	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Dismiss):
		if m.toasts.HasToasts() {
			m.toasts.Dismiss()
			return m, nil
		}
		if m.focus == focusSidebar {
			return m.closeSidebar(), nil
		}
		return m, nil

	case key.Matches(msg, m.keys.FocusSidebar):
		if m.focus == focusSidebar {
			return m.closeSidebar(), nil
		}
		m.sidebarOpen = true
		m.focus = focusSidebar
		m.input.Blur()
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		return m.newConversation()

	case key.Matches(msg, m.keys.ToggleThinking):
		m.showThinking = !m.showThinking
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleSources):
		m.showSources = !m.showSources
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m.copyLastAnswer()

	case key.Matches(msg, m.keys.Refresh):
		if m.retryLoad != nil {
			id := *m.retryLoad
			m.retryLoad = nil
			return m.load(id)
		}
		m.sidebar.Loading = true
		return m, m.listCmd(true)

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sidebar.MoveUp()
		m.confirmDelete = nil
	case key.Matches(msg, m.keys.Down):
		m.sidebar.MoveDown()
		m.confirmDelete = nil
	case key.Matches(msg, m.keys.Submit):
		sel, ok := m.sidebar.Selected()
		if !ok {
			return m, nil
		}
		m = m.closeSidebar()
		return m.load(sel.ID)
	case key.Matches(msg, m.keys.Delete):
		sel, ok := m.sidebar.Selected()
		if !ok {
			return m, nil
		}
		if m.confirmDelete == nil || *m.confirmDelete != sel.ID {
			id := sel.ID
			m.confirmDelete = &id
			m.statusMsg = fmt.Sprintf("Press d again to delete %q", sel.DisplayTitle())
			return m, nil
		}
		m.confirmDelete = nil
		m.statusMsg = "Deleting..."
		return m, m.session.DeleteCmd(m.ctx, sel.ID)
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		text := m.input.Value()
		line := strings.TrimSpace(text)
		if line == "" {
			return m, nil
		}
		if strings.HasPrefix(line, "/") {
			m.input.SetValue("")
			return m.runCommand(line)
		}
		cmd := m.session.SendCmd(m.ctx, text)
		if cmd == nil {
			m.statusMsg = "Wait for the current answer"
			return m, nil
		}
		m.input.SetValue("")
		m.statusMsg = ""
		m.viewport.GotoBottom()
		m.refreshViewport()
		return m, tea.Batch(cmd, m.spinner.Tick)

	case msg.Type == tea.KeyUp:
		m.viewport.LineUp(1)
		return m, nil

	case msg.Type == tea.KeyDown:
		m.viewport.LineDown(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m Model) closeSidebar() Model {
	m.focus = focusInput
	m.sidebarOpen = false
	m.confirmDelete = nil
	m.input.Focus()
	m.layout()
	return m
}

func (m Model) newConversation() (tea.Model, tea.Cmd) {
	m.session.StartNewConversation()
	m.sidebar.SetActive(nil)
	m.retryLoad = nil
	m.statusMsg = "New conversation"
	m.viewport.GotoTop()
	m.refreshViewport()
	return m, nil
}

func (m Model) load(id int64) (tea.Model, tea.Cmd) {
	m.statusMsg = "Loading conversation..."
	cmd := m.session.LoadCmd(m.ctx, id)
	m.refreshViewport()
	return m, tea.Batch(cmd, m.spinner.Tick)
}

func (m Model) copyLastAnswer() (tea.Model, tea.Cmd) {
	answer := lastAnswer(m.session.Snapshot().Messages)
	if answer == nil {
		m.statusMsg = "No answer to copy"
		return m, nil
	}
	if err := copyToClipboard(thinking.Strip(answer.Content)); err != nil {
		m.logger.Debug("clipboard write failed", zap.Error(err))
		return m.toast(components.NewErrorToast("Failed to copy: " + err.Error()))
	}
	m.statusMsg = "Copied answer to clipboard"
	return m, nil
}

func (m Model) toast(t components.Toast) (tea.Model, tea.Cmd) {
	m.toasts.Add(t)
	if m.toastTicking {
		return m, nil
	}
	m.toastTicking = true
	return m, components.ToastTickCmd()
}

// =============================================================================
// SESSION RESULTS
// =============================================================================

func (m Model) handleSendDone(msg session.SendDoneMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""
	m.refreshViewport()

	state := m.session.Snapshot()
	m.sidebar.SetActive(state.ConversationID)

	switch msg.Result.Outcome {
	case session.SendApplied:
		// The backend may have created or retitled the conversation.
		return m, m.listCmd(true)
	case session.SendFailed:
		m.logger.Debug("send failed", zap.Error(msg.Result.Err))
		m.statusMsg = userMessage(msg.Result.Err)
	}
	return m, nil
}

func (m Model) handleLoadDone(msg session.LoadDoneMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""
	switch {
	case msg.Err == nil:
		m.retryLoad = nil
		m.sidebar.SetActive(m.session.Snapshot().ConversationID)
		m.viewport.GotoBottom()
		m.refreshViewport()
		return m, nil
	case errors.Is(msg.Err, session.ErrStale):
		m.refreshViewport()
		return m, nil
	}

	id := msg.ID
	m.retryLoad = &id
	m.refreshViewport()
	t := components.NewErrorToast("Could not open conversation: " + userMessage(msg.Err))
	t.RetryHint = "C-r retry"
	return m.toast(t)
}

func (m Model) handleDeleteDone(msg session.DeleteDoneMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""
	if msg.Err != nil {
		return m.toast(components.NewErrorToast("Delete failed: " + userMessage(msg.Err)))
	}
	m.sidebar.SetActive(m.session.Snapshot().ConversationID)
	m.refreshViewport()
	m.sidebar.Loading = true
	next, cmd := m.toast(components.NewSuccessToast("Conversation deleted"))
	return next, tea.Batch(cmd, next.(Model).listCmd(true))
}
