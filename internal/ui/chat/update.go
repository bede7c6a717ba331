// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/modpack-tui/internal/chat"
	"github.com/jeranaias/modpack-tui/internal/commands"
	"github.com/jeranaias/modpack-tui/internal/conversation"
	"github.com/jeranaias/modpack-tui/internal/ui/components"
	"github.com/jeranaias/modpack-tui/internal/util"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SendDoneMsg:
		return m.handleSendDone(msg)

	case RefreshDoneMsg:
		m.sending = false
		m.syncFromController()
		if msg.SessionExpired {
			return m, func() tea.Msg { return SessionExpiredMsg{Notice: msg.Notice} }
		}
		if msg.Err != nil {
			return m, m.showToast(components.NewErrorToast("Failed to load conversations"))
		}
		return m, nil

	case SelectDoneMsg:
		m.syncFromController()
		if msg.SessionExpired {
			return m, func() tea.Msg { return SessionExpiredMsg{Notice: msg.Notice} }
		}
		if msg.Err != nil {
			return m, m.showToast(components.NewErrorToast(msg.Notice))
		}
		return m, nil

	case ConversationOpDoneMsg:
		m.syncFromController()
		if msg.SessionExpired {
			return m, func() tea.Msg { return SessionExpiredMsg{Notice: msg.Notice} }
		}
		if msg.Notice != "" {
			if msg.Err != nil {
				return m, m.showToast(components.NewErrorToast(msg.Notice))
			}
			return m, m.showToast(components.NewToast(msg.Notice))
		}
		return m, nil

	case toastTickMsg:
		// Redraw; an expired toast renders empty.
		return m, nil
	}

	var cmd tea.Cmd
	m.thinking, cmd = m.thinking.Update(msg)
	if m.sending {
		// Spinner ticks double as redraws so the optimistic user message
		// shows up while the request is in flight.
		m.refreshViewport()
	}
	return m, cmd
}

// handleSendDone settles a send turn in the view.
func (m Model) handleSendDone(msg SendDoneMsg) (Model, tea.Cmd) {
	m.sending = false
	m.thinking.Stop()
	m.syncFromController()

	if msg.Result.SessionExpired {
		return m, func() tea.Msg { return SessionExpiredMsg{Notice: msg.Result.Notice} }
	}

	switch msg.Err {
	case chat.ErrNotAuthenticated:
		return m, m.showToast(components.NewErrorToast(msg.Result.Notice))
	case chat.ErrNoQuota:
		return m, m.showToast(components.NewErrorToast(placeholderNoQuota))
	}

	if msg.Result.QuotaNotice {
		return m, m.showToast(components.NewErrorToast(msg.Result.Notice))
	}
	if msg.Result.Notice != "" {
		return m, m.showToast(components.NewToast(msg.Result.Notice))
	}
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(key tea.KeyMsg) (Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		if m.sidebar.Focused() {
			m.sidebar.Blur()
			m.input.Focus()
		} else {
			m.input.Blur()
			m.sidebar.Focus()
		}
		return m, nil

	case "ctrl+n":
		m.ctrl.NewConversation()
		m.syncFromController()
		return m, nil
	}

	if m.sidebar.Focused() {
		return m.handleSidebarKey(key)
	}
	return m.handleInputKey(key)
}

func (m Model) handleSidebarKey(key tea.KeyMsg) (Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		if item, ok := m.sidebar.Selected(); ok {
			m.sidebar.Blur()
			m.input.Focus()
			return m, selectCmd(m.ctrl, item.ID)
		}
		return m, nil

	case "d", "delete":
		if item, ok := m.sidebar.Selected(); ok {
			return m, deleteCmd(m.ctrl, item.ID)
		}
		return m, nil

	case "esc":
		m.sidebar.Blur()
		m.input.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.sidebar, cmd = m.sidebar.Update(key)
	return m, cmd
}

func (m Model) handleInputKey(key tea.KeyMsg) (Model, tea.Cmd) {
	if key.String() == "enter" {
		input := strings.TrimSpace(m.input.Value())
		if input == "" {
			return m, nil
		}
		m.input.Reset()
		return m.submit(input)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

// submit routes input to a slash command or a send turn.
func (m Model) submit(input string) (Model, tea.Cmd) {
	parsed := m.parser.Parse(input)
	if parsed.IsCommand {
		return m.runCommand(parsed)
	}

	if m.sending {
		return m, m.showToast(components.NewToast("Still waiting for a reply..."))
	}

	m.sending = true
	m.syncFromController()
	return m, tea.Batch(m.thinking.Start(), sendCmd(m.ctrl, input))
}

func (m Model) runCommand(parsed commands.ParseResult) (Model, tea.Cmd) {
	if parsed.Command == nil {
		return m, m.showToast(components.NewErrorToast("Unknown command: " + parsed.CommandName))
	}

	switch parsed.Command.Kind {
	case commands.KindHelp:
		return m, m.showToast(components.NewToast(m.parser.Registry().HelpText()))

	case commands.KindNew:
		if parsed.Arg != "" {
			return m, createCmd(m.ctrl, parsed.Arg)
		}
		m.ctrl.NewConversation()
		m.syncFromController()
		return m, nil

	case commands.KindList:
		m.input.Blur()
		m.sidebar.Focus()
		return m, refreshCmd(m.ctrl)

	case commands.KindOpen:
		n := util.ParseInt64(parsed.Arg)
		items := m.ctrl.Conversations().Summaries()
		if n < 1 || n > int64(len(items)) {
			return m, m.showToast(components.NewErrorToast("Usage: " + parsed.Command.Usage))
		}
		return m, selectCmd(m.ctrl, items[n-1].ID)

	case commands.KindRename:
		id := m.ctrl.Conversations().ActiveID()
		if id == conversation.NoActive {
			return m, m.showToast(components.NewErrorToast("No active conversation to rename"))
		}
		if parsed.Arg == "" {
			return m, m.showToast(components.NewErrorToast("Usage: " + parsed.Command.Usage))
		}
		return m, renameCmd(m.ctrl, id, parsed.Arg)

	case commands.KindDelete:
		id := m.ctrl.Conversations().ActiveID()
		if id == conversation.NoActive {
			return m, m.showToast(components.NewErrorToast("No active conversation to delete"))
		}
		return m, deleteCmd(m.ctrl, id)

	case commands.KindQuota:
		return m, m.showToast(components.NewToast(m.ctrl.Quota().StatusLine()))

	case commands.KindLogout:
		notice := m.ctrl.Logout()
		m.syncFromController()
		return m, func() tea.Msg { return LoggedOutMsg{Notice: notice} }

	case commands.KindQuit:
		return m, tea.Quit
	}
	return m, nil
}
