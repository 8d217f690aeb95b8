// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/jeranaias/ragchat/internal/model"
	"github.com/jeranaias/ragchat/internal/ui/styles"
	"github.com/jeranaias/ragchat/internal/util"
)

// =============================================================================
// CONVERSATION SIDEBAR
// =============================================================================

// Sidebar lists saved conversations and tracks the selected row.
type Sidebar struct {
	items    []model.ConversationSummary
	selected int
	offset   int
	activeID *int64

	Width   int
	Height  int
	Loading bool
	Err     string
}

// NewSidebar creates an empty sidebar.
func NewSidebar(width int) *Sidebar {
	return &Sidebar{Width: width}
}

// SetItems replaces the list, keeping the selection on the same
// conversation when it is still present.
func (s *Sidebar) SetItems(items []model.ConversationSummary) {
	var keep int64
	hadSelection := false
	if sel, ok := s.Selected(); ok {
		keep, hadSelection = sel.ID, true
	}

	s.items = items
	s.Loading = false
	s.Err = ""
	s.selected = 0
	if hadSelection {
		for i, it := range items {
			if it.ID == keep {
				s.selected = i
				break
			}
		}
	}
	s.clamp()
}

// Items returns the listed conversations.
func (s *Sidebar) Items() []model.ConversationSummary {
	return s.items
}

// SetActive marks the conversation shown in the chat pane. nil clears it.
func (s *Sidebar) SetActive(id *int64) {
	if id == nil {
		s.activeID = nil
		return
	}
	v := *id
	s.activeID = &v
}

// Selected returns the highlighted conversation.
func (s *Sidebar) Selected() (model.ConversationSummary, bool) {
	if s.selected < 0 || s.selected >= len(s.items) {
		return model.ConversationSummary{}, false
	}
	return s.items[s.selected], true
}

// MoveUp moves the selection up one row.
func (s *Sidebar) MoveUp() {
	if s.selected > 0 {
		s.selected--
	}
	s.clamp()
}

// MoveDown moves the selection down one row.
func (s *Sidebar) MoveDown() {
	if s.selected < len(s.items)-1 {
		s.selected++
	}
	s.clamp()
}

// visibleRows is the number of list rows that fit below the title.
func (s *Sidebar) visibleRows() int {
	rows := (s.Height - 2) / 2
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (s *Sidebar) clamp() {
	if s.selected >= len(s.items) {
		s.selected = len(s.items) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
	rows := s.visibleRows()
	if s.selected < s.offset {
		s.offset = s.selected
	}
	if s.selected >= s.offset+rows {
		s.offset = s.selected - rows + 1
	}
	if s.offset < 0 {
		s.offset = 0
	}
}

// View renders the sidebar. focused highlights the selected row.
func (s *Sidebar) View(theme *styles.Theme, focused bool) string {
	width := s.Width - 2
	if width < 8 {
		width = 8
	}

	var sb strings.Builder
	sb.WriteString(theme.SidebarTitle.Render("Conversations"))
	sb.WriteString("\n")

	switch {
	case s.Err != "":
		sb.WriteString(theme.ErrorStyle.Render(util.TruncateWidth(s.Err, width)))
	case s.Loading && len(s.items) == 0:
		sb.WriteString(theme.SidebarMeta.Render("Loading..."))
	case len(s.items) == 0:
		sb.WriteString(theme.SidebarMeta.Render("No saved conversations"))
	default:
		s.clamp()
		end := s.offset + s.visibleRows()
		if end > len(s.items) {
			end = len(s.items)
		}
		for i := s.offset; i < end; i++ {
			sb.WriteString(s.renderItem(theme, i, width, focused))
			sb.WriteString("\n")
		}
	}

	return theme.Sidebar.Width(s.Width).Height(s.Height).Render(strings.TrimRight(sb.String(), "\n"))
}

func (s *Sidebar) renderItem(theme *styles.Theme, i, width int, focused bool) string {
	it := s.items[i]
	title := util.PadRight(util.TruncateWidth(it.DisplayTitle(), width), width)
	meta := util.TruncateWidth(RelativeTime(it.UpdatedAt, time.Now()), width)

	style := theme.SidebarItem
	if s.activeID != nil && *s.activeID == it.ID {
		style = theme.SidebarItemActive
	}
	if focused && i == s.selected {
		style = theme.SidebarItemSelected
	}
	return style.Render(title) + "\n" + theme.SidebarMeta.Render(meta)
}

// RelativeTime formats t relative to now for list metadata.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return pluralize(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return pluralize(int(d.Hours()), "hour") + " ago"
	case d < 7*24*time.Hour:
		return pluralize(int(d.Hours()/24), "day") + " ago"
	default:
		return t.Format("Jan 2, 2006")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return itoa(n) + " " + unit + "s"
}
