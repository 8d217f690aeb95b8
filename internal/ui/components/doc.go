// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the rendering pieces of the ragchat TUI.

Components are stateless render functions or small state holders. They take
a *styles.Theme so colors follow the configured mode.

# Components

  - RenderMessage (message.go): message bubbles. Assistant replies are split
    into a collapsible thinking segment and the visible answer, followed by
    the cited sources.
  - Markdown (markdown.go): glamour rendering of answers, cached per width,
    with a fallback to CodeBlock for narrow panes and plain output.
  - CodeBlock (codeblock.go): chroma-highlighted fenced code.
  - Sidebar (sidebar.go): the saved conversation list.
  - ToastManager (toast.go): non-blocking notifications that dismiss
    themselves.
  - RenderWelcome (welcome.go): the empty conversation screen.
*/
package components
