// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	Mode         string
	IsDark       bool
	Plain        bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	renderer *lipgloss.Renderer

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	// Message bubbles
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	RoleLabel       lipgloss.Style
	Timestamp       lipgloss.Style

	// Thinking segment
	ThinkingBox    lipgloss.Style
	ThinkingLabel  lipgloss.Style
	ThinkingText   lipgloss.Style
	ThinkingHidden lipgloss.Style

	// Sources
	SourceBox     lipgloss.Style
	SourceLabel   lipgloss.Style
	SourceExcerpt lipgloss.Style

	// Input area
	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	StatusBusy   lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Spinner      lipgloss.Style

	// Sidebar
	Sidebar             lipgloss.Style
	SidebarTitle        lipgloss.Style
	SidebarItem         lipgloss.Style
	SidebarItemSelected lipgloss.Style
	SidebarItemActive   lipgloss.Style
	SidebarMeta         lipgloss.Style

	// Code blocks
	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style
	CodeLineNum   lipgloss.Style

	// Toasts
	ToastError   lipgloss.Style
	ToastWarning lipgloss.Style
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style

	// Welcome screen
	WelcomeBox   lipgloss.Style
	WelcomeTitle lipgloss.Style
	WelcomeInfo  lipgloss.Style
	WelcomeKey   lipgloss.Style

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a theme for mode ("auto", "dark" or "light"). Plain
// themes render without color.
func NewTheme(mode string, plain bool) *Theme {
	mode = strings.ToLower(strings.TrimSpace(mode))
	r := lipgloss.NewRenderer(os.Stdout)

	profile := r.ColorProfile()
	if plain {
		profile = termenv.Ascii
	}
	r.SetColorProfile(profile)

	isDark := true
	switch mode {
	case ModeDark:
	case ModeLight:
		isDark = false
	default:
		mode = ModeAuto
		isDark = r.HasDarkBackground()
	}
	r.SetHasDarkBackground(isDark)

	t := &Theme{
		Mode:         mode,
		IsDark:       isDark,
		Plain:        plain,
		ColorProfile: profile,
		renderer:     r,
	}
	t.initStyles()
	return t
}

// Renderer returns the lipgloss renderer bound to this theme.
func (t *Theme) Renderer() *lipgloss.Renderer {
	return t.renderer
}

// GlamourStyle returns the glamour standard style name for this theme.
func (t *Theme) GlamourStyle() string {
	switch {
	case t.Plain:
		return "notty"
	case t.IsDark:
		return "dark"
	default:
		return "light"
	}
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	s := t.renderer.NewStyle

	// Header
	t.Header = s().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = s().
		Bold(true).
		Foreground(Purple)

	t.HeaderMeta = s().
		Foreground(TextSecondary).
		Italic(true)

	// Message bubbles
	t.UserBubble = s().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1).
		MarginLeft(4)

	t.AssistantBubble = s().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1).
		MarginRight(4)

	t.ErrorBubble = s().
		Foreground(Rose).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1).
		MarginRight(4)

	t.RoleLabel = s().
		Bold(true).
		Foreground(TextSecondary)

	t.Timestamp = s().
		Foreground(TextMuted)

	// Thinking
	t.ThinkingBox = s().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(TextMuted).
		PaddingLeft(1)

	t.ThinkingLabel = s().
		Foreground(Amber).
		Italic(true)

	t.ThinkingText = s().
		Foreground(TextMuted).
		Italic(true)

	t.ThinkingHidden = s().
		Foreground(TextMuted).
		Faint(true)

	// Sources
	t.SourceBox = s().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(SourceBorder)

	t.SourceLabel = s().
		Foreground(SourceLabel).
		Bold(true)

	t.SourceExcerpt = s().
		Foreground(TextSecondary).
		PaddingLeft(4)

	// Input area
	t.InputContainer = s().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = s().
		Foreground(Cyan).
		Bold(true)

	t.InputPlaceholder = s().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = s().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusBusy = s().
		Foreground(Amber).
		Bold(true)

	t.ShortcutKey = s().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = s().
		Foreground(TextMuted)

	t.Spinner = s().
		Foreground(Purple)

	// Sidebar
	t.Sidebar = s().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		PaddingRight(1)

	t.SidebarTitle = s().
		Bold(true).
		Foreground(Purple).
		MarginBottom(1)

	t.SidebarItem = s().
		Foreground(TextPrimary)

	t.SidebarItemSelected = s().
		Background(SelectionBg).
		Foreground(TextPrimary).
		Bold(true)

	t.SidebarItemActive = s().
		Foreground(Cyan).
		Bold(true)

	t.SidebarMeta = s().
		Foreground(TextMuted)

	// Code blocks
	t.CodeBlock = s().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.CodeLangBadge = s().
		Foreground(TextMuted).
		Background(Overlay).
		Padding(0, 1).
		Bold(true)

	t.CodeLineNum = s().
		Foreground(TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	// Toasts
	toast := s().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1)
	t.ToastError = toast.BorderForeground(Rose).Foreground(Rose)
	t.ToastWarning = toast.BorderForeground(Amber).Foreground(Amber)
	t.ToastInfo = toast.BorderForeground(Cyan).Foreground(Cyan)
	t.ToastSuccess = toast.BorderForeground(Emerald).Foreground(Emerald)

	// Welcome screen
	t.WelcomeBox = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 3).
		Align(lipgloss.Center)

	t.WelcomeTitle = s().
		Foreground(Cyan).
		Bold(true)

	t.WelcomeInfo = s().
		Foreground(TextSecondary)

	t.WelcomeKey = s().
		Foreground(Cyan).
		Bold(true)

	// Status text
	t.SuccessStyle = s().Foreground(Emerald).Bold(true)
	t.ErrorStyle = s().Foreground(Rose).Bold(true)
	t.WarningStyle = s().Foreground(Amber).Bold(true)
	t.InfoStyle = s().Foreground(Cyan).Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// RenderStatus renders a message with a shape indicator for success or
// failure.
func (t *Theme) RenderStatus(success bool, message string) string {
	if success {
		return t.SuccessStyle.Render(StatusIndicators.Success + " " + message)
	}
	return t.ErrorStyle.Render(StatusIndicators.Error + " " + message)
}
