// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders assistant replies as terminal markdown. The
// renderer is rebuilt on resize since word wrap is fixed at construction.
type markdownRenderer struct {
	renderer *glamour.TermRenderer
	enabled  bool
}

func newMarkdownRenderer(isDark, enabled bool, width int) *markdownRenderer {
	m := &markdownRenderer{enabled: enabled}
	if !enabled {
		return m
	}

	style := "light"
	if isDark {
		style = "dark"
	}
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Fall back to raw text rendering.
		m.enabled = false
		return m
	}
	m.renderer = r
	return m
}

// Render renders markdown, returning the input unchanged when rendering is
// disabled or fails.
func (m *markdownRenderer) Render(content string) string {
	if !m.enabled || m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
