// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ragchat/internal/ui/styles"
)

// welcomeKeys are the shortcuts listed on the empty conversation screen.
var welcomeKeys = [][2]string{
	{"enter", "send message"},
	{"tab", "browse conversations"},
	{"ctrl+n", "new conversation"},
	{"ctrl+t", "show/hide thinking"},
	{"/upload <file>", "add a document"},
	{"ctrl+c", "quit"},
}

// RenderWelcome draws the empty conversation screen centered in the pane.
func RenderWelcome(theme *styles.Theme, width, height int, backendURL string) string {
	var sb strings.Builder
	sb.WriteString(theme.WelcomeTitle.Render("Ask about your documents"))
	sb.WriteString("\n")
	sb.WriteString(theme.WelcomeInfo.Render(backendURL))
	sb.WriteString("\n\n")
	for _, k := range welcomeKeys {
		sb.WriteString(theme.WelcomeKey.Render(padKey(k[0], 16)))
		sb.WriteString(theme.WelcomeInfo.Render(k[1]))
		sb.WriteString("\n")
	}

	box := theme.WelcomeBox.Render(strings.TrimRight(sb.String(), "\n"))
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func padKey(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
