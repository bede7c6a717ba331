// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/modpack-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome fills the empty transcript area with a greeting and key hints.
type Welcome struct {
	username string
	width    int
	height   int

	theme *styles.Theme
}

// NewWelcome creates the welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{theme: theme}
}

// SetUsername sets the greeting name, empty when logged out.
func (w *Welcome) SetUsername(name string) {
	w.username = name
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// View renders the welcome box centered in the available area.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 20
	}

	var sb strings.Builder
	sb.WriteString(w.theme.WelcomeTitle.Render("ModpackGPT"))
	sb.WriteString("\n")
	sb.WriteString("Your BetterMC modpack assistant")
	sb.WriteString("\n\n")
	if w.username != "" {
		sb.WriteString("Ask about crashes, shaders, performance, or quests.\n\n")
	} else {
		sb.WriteString("Login to start chatting.\n\n")
	}
	sb.WriteString(w.theme.ShortcutDesc.Render("Type /help for commands"))

	box := w.theme.Welcome.Render(sb.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
