// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ragchat/internal/session"
	"github.com/jeranaias/ragchat/internal/ui/components"
)

// =============================================================================
// COMMAND HANDLER REGISTRY
// =============================================================================

// CommandHandler handles one slash command.
type CommandHandler func(m Model, args []string) (tea.Model, tea.Cmd)

type commandInfo struct {
	handler CommandHandler
	usage   string
	desc    string
}

// commandHandlers maps command names to their handlers. Aliases share an
// entry.
var commandHandlers map[string]commandInfo

func init() {
	commandHandlers = map[string]commandInfo{
		"help":     {handleHelpCommand, "/help", "list commands"},
		"new":      {handleNewCommand, "/new", "start a new conversation"},
		"upload":   {handleUploadCommand, "/upload <file>", "add a document to the knowledge base"},
		"export":   {handleExportCommand, "/export [file]", "save the transcript (.md, .json, .html)"},
		"thinking": {handleThinkingCommand, "/thinking", "show or hide thinking segments"},
		"sources":  {handleSourcesCommand, "/sources", "show or hide sources"},
		"refresh":  {handleRefreshCommand, "/refresh", "reload the conversation list"},
		"status":   {handleStatusCommand, "/status", "show session and request stats"},
		"quit":     {handleQuitCommand, "/quit", "exit"},
	}
	commandHandlers["h"] = commandHandlers["help"]
	commandHandlers["?"] = commandHandlers["help"]
	commandHandlers["n"] = commandHandlers["new"]
	commandHandlers["u"] = commandHandlers["upload"]
	commandHandlers["q"] = commandHandlers["quit"]
	commandHandlers["exit"] = commandHandlers["quit"]
}

// runCommand dispatches a "/name args" line.
func (m Model) runCommand(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(strings.TrimPrefix(line, "/"))
	if len(fields) == 0 {
		return handleHelpCommand(m, nil)
	}
	info, ok := commandHandlers[strings.ToLower(fields[0])]
	if !ok {
		return m.toast(components.NewWarningToast(fmt.Sprintf("Unknown command /%s, try /help", fields[0])))
	}
	return info.handler(m, fields[1:])
}

// =============================================================================
// HANDLERS
// =============================================================================

func handleHelpCommand(m Model, _ []string) (tea.Model, tea.Cmd) {
	seen := map[string]bool{}
	var lines []string
	for _, info := range commandHandlers {
		if seen[info.usage] {
			continue
		}
		seen[info.usage] = true
		lines = append(lines, fmt.Sprintf("%-16s %s", info.usage, info.desc))
	}
	sort.Strings(lines)
	t := components.NewStatusToast(strings.Join(lines, "\n"))
	t.Duration = 3 * components.ErrorToastDuration
	return m.toast(t)
}

func handleNewCommand(m Model, _ []string) (tea.Model, tea.Cmd) {
	return m.newConversation()
}

func handleUploadCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		return m.toast(components.NewWarningToast("Usage: /upload <file>"))
	}
	path := expandHome(strings.Join(args, " "))
	m.statusMsg = "Uploading " + filepath.Base(path) + "..."
	return m, m.uploadCmd(path)
}

func handleExportCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	state := m.session.Snapshot()
	if len(state.Messages) == 0 {
		return m.toast(components.NewWarningToast("Nothing to export"))
	}
	path := ""
	if len(args) > 0 {
		path = expandHome(strings.Join(args, " "))
	}
	includeThinking, includeSources := m.showThinking, m.showSources
	return m, func() tea.Msg {
		written, err := WriteTranscript(path, state, includeThinking, includeSources)
		return exportDoneMsg{path: written, err: err}
	}
}

func handleThinkingCommand(m Model, _ []string) (tea.Model, tea.Cmd) {
	m.showThinking = !m.showThinking
	m.refreshViewport()
	return m.toast(components.NewStatusToast("Thinking " + onOff(m.showThinking)))
}

func handleSourcesCommand(m Model, _ []string) (tea.Model, tea.Cmd) {
	m.showSources = !m.showSources
	m.refreshViewport()
	return m.toast(components.NewStatusToast("Sources " + onOff(m.showSources)))
}

func handleRefreshCommand(m Model, _ []string) (tea.Model, tea.Cmd) {
	m.sidebar.Loading = true
	return m, m.listCmd(true)
}

func handleStatusCommand(m Model, _ []string) (tea.Model, tea.Cmd) {
	st := m.session.GetStatus()
	id := "unsaved"
	if st.ConversationID != nil {
		id = fmt.Sprintf("#%d", *st.ConversationID)
	}
	lines := []string{
		fmt.Sprintf("%s (%s), %d messages", st.Title, id, st.Messages),
		"Session " + session.FormatDuration(st.Duration) + ", idle " + session.FormatDuration(st.IdleTime),
		"Backend " + m.backendURL(),
	}
	if m.tracker != nil {
		lines = append(lines, m.tracker.Current().Summary())
	}
	return m.toast(components.NewStatusToast(strings.Join(lines, "\n")))
}

func handleQuitCommand(m Model, _ []string) (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// =============================================================================
// HELPERS
// =============================================================================

func onOff(b bool) string {
	if b {
		return "shown"
	}
	return "hidden"
}

// expandHome replaces a leading "~/" with the home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
