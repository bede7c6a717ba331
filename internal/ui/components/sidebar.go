// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/modpack-tui/internal/model"
	"github.com/jeranaias/modpack-tui/internal/ui/styles"
	"github.com/jeranaias/modpack-tui/internal/util"
)

// =============================================================================
// CONVERSATION SIDEBAR
// =============================================================================

// Sidebar lists saved conversations. It keeps its own cursor; the active
// conversation (the one whose transcript is showing) is marked separately
// from the cursor row.
type Sidebar struct {
	items    []model.ConversationSummary
	cursor   int
	activeID int64

	width   int
	height  int
	focused bool

	theme *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) Sidebar {
	return Sidebar{theme: theme}
}

// SetItems replaces the conversation list. The cursor is clamped and, when
// possible, kept on the same conversation it pointed at before.
func (s *Sidebar) SetItems(items []model.ConversationSummary) {
	var keep int64
	if s.cursor >= 0 && s.cursor < len(s.items) {
		keep = s.items[s.cursor].ID
	}

	s.items = items
	s.cursor = 0
	for i, item := range items {
		if item.ID == keep {
			s.cursor = i
			break
		}
	}
}

// SetActiveID marks which conversation's transcript is showing.
func (s *Sidebar) SetActiveID(id int64) {
	s.activeID = id
}

// SetSize updates the dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Focus gives the sidebar keyboard focus.
func (s *Sidebar) Focus() { s.focused = true }

// Blur removes keyboard focus.
func (s *Sidebar) Blur() { s.focused = false }

// Focused reports keyboard focus.
func (s *Sidebar) Focused() bool { return s.focused }

// Len returns the number of listed conversations.
func (s *Sidebar) Len() int { return len(s.items) }

// Selected returns the conversation under the cursor, ok=false when the
// list is empty.
func (s *Sidebar) Selected() (model.ConversationSummary, bool) {
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return model.ConversationSummary{}, false
	}
	return s.items[s.cursor], true
}

// Update handles cursor movement while focused.
func (s Sidebar) Update(msg tea.Msg) (Sidebar, tea.Cmd) {
	if !s.focused {
		return s, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.items)-1 {
				s.cursor++
			}
		case "home", "g":
			s.cursor = 0
		case "end", "G":
			if len(s.items) > 0 {
				s.cursor = len(s.items) - 1
			}
		}
	}
	return s, nil
}

// View renders the sidebar.
func (s Sidebar) View() string {
	width := s.width
	if width == 0 {
		width = 28
	}
	innerWidth := width - 4

	var sb strings.Builder
	sb.WriteString(s.theme.SidebarTitle.Render("Conversations"))
	sb.WriteString("\n\n")

	if len(s.items) == 0 {
		sb.WriteString(s.theme.SidebarEmpty.Render("No conversations yet"))
	} else {
		for i, item := range s.items {
			sb.WriteString(s.renderItem(i, item, innerWidth))
			sb.WriteString("\n")
		}
	}

	style := s.theme.Sidebar.Width(width)
	if s.height > 0 {
		style = style.Height(s.height)
	}
	return style.Render(sb.String())
}

func (s Sidebar) renderItem(index int, item model.ConversationSummary, width int) string {
	title := util.TruncateWidth(item.DisplayTitle(), width-2)

	marker := "  "
	if item.ID == s.activeID {
		marker = "* "
	}

	switch {
	case s.focused && index == s.cursor:
		return s.theme.SidebarItemSelected.Render(marker + title)
	case item.ID == s.activeID:
		return s.theme.SidebarItemActive.Render(marker + title)
	default:
		return s.theme.SidebarItem.Render(marker + title)
	}
}
