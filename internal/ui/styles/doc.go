// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the ragchat TUI.

All colors use Lip Gloss AdaptiveColor so one palette serves light and dark
terminals. A Theme binds the palette to a lipgloss.Renderer whose background
and color profile come from the configured mode:

	theme := styles.NewTheme(cfg.UI.Theme, cfg.UI.Plain)
	fmt.Println(theme.UserBubble.Render("hello"))

# Modes

  - auto: detect the terminal background
  - dark / light: force a background
  - plain (flag): no color at all, for pipes and screen readers

Status indicators ([OK], [X], [!]) always accompany color so state is
readable without it.
*/
package styles
