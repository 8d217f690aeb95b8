// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme_Modes(t *testing.T) {
	dark := NewTheme("dark", false)
	assert.Equal(t, ModeDark, dark.Mode)
	assert.True(t, dark.IsDark)

	light := NewTheme(" LIGHT ", false)
	assert.Equal(t, ModeLight, light.Mode)
	assert.False(t, light.IsDark)

	auto := NewTheme("bogus", false)
	assert.Equal(t, ModeAuto, auto.Mode)
}

func TestNewTheme_Plain(t *testing.T) {
	theme := NewTheme("dark", true)
	require.True(t, theme.Plain)
	assert.Equal(t, termenv.Ascii, theme.ColorProfile)
	assert.Equal(t, "notty", theme.GlamourStyle())

	out := theme.ErrorStyle.Render("failed")
	assert.NotContains(t, out, "\x1b[", "plain themes emit no escape codes")
	assert.Contains(t, out, "failed")
}

func TestThemeStylesRender(t *testing.T) {
	theme := NewTheme("dark", true)

	for name, out := range map[string]string{
		"UserBubble":      theme.UserBubble.Render("test"),
		"AssistantBubble": theme.AssistantBubble.Render("test"),
		"ErrorBubble":     theme.ErrorBubble.Render("test"),
		"ThinkingBox":     theme.ThinkingBox.Render("test"),
		"SourceBox":       theme.SourceBox.Render("test"),
		"Sidebar":         theme.Sidebar.Render("test"),
		"ToastError":      theme.ToastError.Render("test"),
		"CodeBlock":       theme.CodeBlock.Render("test"),
	} {
		assert.Contains(t, out, "test", name)
	}
}

func TestGlamourStyle(t *testing.T) {
	assert.Equal(t, "dark", NewTheme("dark", false).GlamourStyle())
	assert.Equal(t, "light", NewTheme("light", false).GlamourStyle())
}

// =============================================================================
// LAYOUT TESTS
// =============================================================================

func TestGetLayoutMode(t *testing.T) {
	theme := NewTheme("dark", true)

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 40)
		assert.Equal(t, tt.want, theme.GetLayoutMode(), "width %d", tt.width)
	}
}

func TestRenderStatus(t *testing.T) {
	theme := NewTheme("dark", true)
	assert.True(t, strings.HasPrefix(theme.RenderStatus(true, "saved"), "[OK]"))
	assert.True(t, strings.HasPrefix(theme.RenderStatus(false, "nope"), "[X]"))
}

// =============================================================================
// SPINNER TESTS
// =============================================================================

func TestSpinnerConfig(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, LineSpinner.Duration())
	assert.Equal(t, time.Second, SpinnerConfig{}.Duration())

	sp := DotsSpinner.Bubble()
	assert.Equal(t, DotsSpinner.Frames, sp.Frames)
	assert.Equal(t, time.Second/6, sp.FPS)
}
