// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/modpack-tui/internal/chat"
)

// =============================================================================
// ASYNC COMMANDS
// =============================================================================

// sendCmd runs one send turn off the UI goroutine.
func sendCmd(ctrl *chat.Controller, prompt string) tea.Cmd {
	return func() tea.Msg {
		result, err := ctrl.Send(context.Background(), prompt)
		return SendDoneMsg{Result: result, Err: err}
	}
}

// refreshCmd reloads the conversation list and quota.
func refreshCmd(ctrl *chat.Controller) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.RefreshAll(context.Background())
		msg := RefreshDoneMsg{Err: err}
		if err != nil && !ctrl.Session().IsAuthenticated() {
			msg.SessionExpired = true
		}
		return msg
	}
}

// selectCmd switches the active conversation.
func selectCmd(ctrl *chat.Controller, id int64) tea.Cmd {
	return func() tea.Msg {
		notice, err := ctrl.SelectConversation(context.Background(), id)
		msg := SelectDoneMsg{ID: id, Notice: notice, Err: err}
		if err != nil && !ctrl.Session().IsAuthenticated() {
			msg.SessionExpired = true
		}
		return msg
	}
}

// createCmd creates a titled conversation and makes it active.
func createCmd(ctrl *chat.Controller, title string) tea.Cmd {
	return func() tea.Msg {
		notice, err := ctrl.CreateConversation(context.Background(), title)
		return opDone(ctrl, notice, err)
	}
}

// renameCmd renames a conversation.
func renameCmd(ctrl *chat.Controller, id int64, title string) tea.Cmd {
	return func() tea.Msg {
		notice, err := ctrl.RenameConversation(context.Background(), id, title)
		return opDone(ctrl, notice, err)
	}
}

// deleteCmd deletes a conversation.
func deleteCmd(ctrl *chat.Controller, id int64) tea.Cmd {
	return func() tea.Msg {
		notice, err := ctrl.DeleteConversation(context.Background(), id)
		return opDone(ctrl, notice, err)
	}
}

func opDone(ctrl *chat.Controller, notice string, err error) ConversationOpDoneMsg {
	msg := ConversationOpDoneMsg{Notice: notice, Err: err}
	if err != nil && !ctrl.Session().IsAuthenticated() {
		msg.SessionExpired = true
	}
	return msg
}

// toastTickCmd schedules a redraw so expired toasts disappear.
func toastTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastTickMsg{}
	})
}
