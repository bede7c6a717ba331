// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/modpack-tui/internal/ui/styles"
	"github.com/jeranaias/modpack-tui/internal/util"
)

// =============================================================================
// THINKING INDICATOR
// =============================================================================

// ThinkingIndicator shows an animated spinner while a completion request is
// in flight.
type ThinkingIndicator struct {
	spinner   spinner.Model
	startTime time.Time
	active    bool

	theme *styles.Theme
}

// NewThinkingIndicator creates a thinking indicator with an ASCII-safe
// spinner.
func NewThinkingIndicator(theme *styles.Theme) ThinkingIndicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = theme.Spinner
	return ThinkingIndicator{spinner: s, theme: theme}
}

// Start activates the indicator and returns the tick command.
func (t *ThinkingIndicator) Start() tea.Cmd {
	t.active = true
	t.startTime = time.Now()
	return t.spinner.Tick
}

// Stop deactivates the indicator.
func (t *ThinkingIndicator) Stop() {
	t.active = false
}

// IsActive reports whether the indicator is running.
func (t *ThinkingIndicator) IsActive() bool {
	return t.active
}

// Update advances the animation.
func (t ThinkingIndicator) Update(msg tea.Msg) (ThinkingIndicator, tea.Cmd) {
	if !t.active {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the indicator, empty when inactive.
func (t ThinkingIndicator) View() string {
	if !t.active {
		return ""
	}
	out := t.spinner.View() + " " + t.theme.ThinkingText.Render("Thinking...")
	if !t.startTime.IsZero() {
		elapsed := int(time.Since(t.startTime).Seconds())
		if elapsed >= 2 {
			out += t.theme.MessageTime.Render(" (" + util.IntToString(elapsed) + "s)")
		}
	}
	return out
}
