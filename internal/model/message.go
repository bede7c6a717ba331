// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and the active transcript.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "ModpackGPT"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// RoleFromWire maps the backend's role strings (USER, ASSISTANT) to a Role.
// Unknown values map to RoleAssistant so a server-side addition never drops
// a message from the transcript.
func RoleFromWire(s string) Role {
	switch strings.ToUpper(s) {
	case "USER":
		return RoleUser
	case "ASSISTANT":
		return RoleAssistant
	default:
		return RoleAssistant
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in a transcript. Messages fetched from the
// backend carry its numeric id in ServerID; locally appended entries carry
// only the generated ID. The two are never reconciled since a transcript is
// append-only within a turn.
type Message struct {
	ID        string    `json:"id"`
	ServerID  int64     `json:"server_id,omitempty"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// IsError marks a synthetic assistant entry carrying a failed send's
	// error text.
	IsError bool `json:"is_error,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a locally authored user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant reply message.
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// NewErrorMessage creates a synthetic assistant entry that surfaces a send
// failure in-line in the transcript.
func NewErrorMessage(text string) Message {
	msg := NewMessage(RoleAssistant, text)
	msg.IsError = true
	return msg
}

// Preview returns a truncated preview of the message content.
// Rune-based so multi-byte characters are never split.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m Message) IsEmpty() bool {
	return len(m.Content) == 0
}
