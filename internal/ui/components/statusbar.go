// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/modpack-tui/internal/quota"
	"github.com/jeranaias/modpack-tui/internal/ui/styles"
	"github.com/jeranaias/modpack-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar renders the bottom status line: signed-in user on the left,
// remaining-query counter in the middle, key hints on the right.
type StatusBar struct {
	width    int
	username string
	sending  bool

	quotaKnown     bool
	quotaRemaining int

	theme *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{theme: theme}
}

// SetWidth sets the render width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// SetUsername sets the signed-in username, empty when logged out.
func (s *StatusBar) SetUsername(name string) {
	s.username = name
}

// SetSending toggles the in-flight indicator.
func (s *StatusBar) SetSending(sending bool) {
	s.sending = sending
}

// SetQuota updates the remaining-query display. known=false renders no
// counter, matching an unauthenticated or not-yet-fetched state.
func (s *StatusBar) SetQuota(remaining int, known bool) {
	s.quotaRemaining = remaining
	s.quotaKnown = known
}

// View renders the status bar.
func (s StatusBar) View() string {
	left := s.renderUser()
	mid := s.renderQuota()
	right := s.renderHints()

	width := s.width
	if width == 0 {
		width = 80
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(mid) - lipgloss.Width(right)
	if gap < 2 {
		return s.theme.StatusBar.Width(width).Render(left + " " + mid)
	}

	leftPad := gap / 2
	rightPad := gap - leftPad
	line := left + pad(leftPad) + mid + pad(rightPad) + right
	return s.theme.StatusBar.Width(width).Render(line)
}

func (s StatusBar) renderUser() string {
	if s.username == "" {
		return s.theme.ShortcutDesc.Render("not logged in")
	}
	out := s.theme.StatusUser.Render(s.username)
	if s.sending {
		out += s.theme.ShortcutDesc.Render(" · sending")
	}
	return out
}

func (s StatusBar) renderQuota() string {
	if !s.quotaKnown {
		return ""
	}
	text := util.IntToString(s.quotaRemaining) + " queries remaining"
	switch {
	case s.quotaRemaining <= 0:
		return s.theme.QuotaEmpty.Render(text)
	case s.quotaRemaining <= quota.LowThreshold:
		return s.theme.QuotaLow.Render(text)
	default:
		return s.theme.QuotaOK.Render(text)
	}
}

func (s StatusBar) renderHints() string {
	key := s.theme.ShortcutKey
	desc := s.theme.ShortcutDesc
	return key.Render("ctrl+n") + desc.Render(" new  ") +
		key.Render("tab") + desc.Render(" sidebar  ") +
		key.Render("ctrl+c") + desc.Render(" quit")
}

func pad(n int) string {
	if n < 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
