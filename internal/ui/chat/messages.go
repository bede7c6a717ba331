// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"github.com/jeranaias/modpack-tui/internal/chat"
)

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// SendDoneMsg reports a settled send turn.
type SendDoneMsg struct {
	Result chat.SendResult
	Err    error
}

// RefreshDoneMsg reports a conversation-list and quota reload.
type RefreshDoneMsg struct {
	Notice         string
	SessionExpired bool
	Err            error
}

// SelectDoneMsg reports a conversation switch.
type SelectDoneMsg struct {
	ID             int64
	Notice         string
	SessionExpired bool
	Err            error
}

// ConversationOpDoneMsg reports a create, rename, or delete.
type ConversationOpDoneMsg struct {
	Notice         string
	SessionExpired bool
	Err            error
}

// SessionExpiredMsg tells the app model to drop back to the auth screen.
// Notice may be empty when the expiry was already reported.
type SessionExpiredMsg struct {
	Notice string
}

// LoggedOutMsg tells the app model the user logged out deliberately.
type LoggedOutMsg struct {
	Notice string
}

// toastTickMsg drives toast expiry redraws.
type toastTickMsg struct{}
