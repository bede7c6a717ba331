// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	header := m.renderHeader()
	body := m.renderBody()
	feedback := m.renderFeedback()
	input := m.theme.InputContainer.Width(m.contentWidth()).Render(m.input.View())
	status := m.statusBar.View()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, feedback, input, status)
}

func (m Model) contentWidth() int {
	width := m.width - m.sidebarWidth
	if width < 40 {
		width = m.width
	}
	if width <= 0 {
		width = 80
	}
	return width
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("ModpackGPT")
	active := m.ctrl.Conversations().ActiveTitle()
	if active == "" {
		active = "New conversation"
	}
	subtitle := m.theme.HeaderSubtitle.Render(" " + active)
	return m.theme.Container.Render(title + subtitle)
}

func (m Model) renderBody() string {
	if m.width >= m.sidebarWidth+40 {
		return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), m.viewport.View())
	}
	return m.viewport.View()
}

// renderFeedback shows the thinking spinner while sending, otherwise the
// current toast line.
func (m Model) renderFeedback() string {
	if m.thinking.IsActive() {
		return m.theme.Container.Render(m.thinking.View())
	}
	if line := m.toast.Render(m.theme); line != "" {
		return m.theme.Container.Render(line)
	}
	return ""
}
