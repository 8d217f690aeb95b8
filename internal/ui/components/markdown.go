// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/ragchat/internal/ui/styles"
)

// minMarkdownWidth is the narrowest width glamour renders at. Narrower
// bubbles use the plain code block renderer.
const minMarkdownWidth = 30

// Markdown renders answer text. It caches one glamour renderer per width.
type Markdown struct {
	mu        sync.Mutex
	theme     *styles.Theme
	renderers map[int]*glamour.TermRenderer
	disabled  bool
}

// NewMarkdown creates a renderer for theme. Disabled renderers only format
// fenced code blocks.
func NewMarkdown(theme *styles.Theme, enabled bool) *Markdown {
	return &Markdown{
		theme:     theme,
		renderers: make(map[int]*glamour.TermRenderer),
		disabled:  !enabled,
	}
}

// Render renders text wrapped to width.
func (m *Markdown) Render(text string, width int) string {
	if m == nil {
		return text
	}
	if m.disabled || width < minMarkdownWidth {
		return ParseCodeBlocks(text, width, m.theme)
	}

	r, err := m.renderer(width)
	if err != nil {
		return ParseCodeBlocks(text, width, m.theme)
	}
	out, err := r.Render(text)
	if err != nil {
		return ParseCodeBlocks(text, width, m.theme)
	}
	return strings.Trim(out, "\n")
}

func (m *Markdown) renderer(width int) (*glamour.TermRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.theme.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	m.renderers[width] = r
	return r, nil
}
