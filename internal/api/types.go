// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// WIRE TIMESTAMP
// =============================================================================

// Timestamp wraps time.Time to accept the backend's timestamp formats.
// The backend emits ISO local datetimes without a zone offset; RFC3339 is
// accepted too.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON parses a JSON timestamp string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// =============================================================================
// AUTH
// =============================================================================

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the backend's response to login and register calls.
// Register returns an empty Token: new accounts are pending admin approval
// and must never be treated as logged in.
type AuthResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

type conversationWire struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    Timestamp `json:"createdAt"`
	UpdatedAt    Timestamp `json:"updatedAt"`
	MessageCount int       `json:"messageCount"`
}

type messageWire struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	CreatedAt Timestamp `json:"createdAt"`
}

type titleRequest struct {
	Title string `json:"title"`
}

// =============================================================================
// CHAT COMPLETION
// =============================================================================

type chatRequest struct {
	Prompt string `json:"prompt"`
	// ConversationID is null for a new, unsaved conversation; the backend
	// then creates one and returns its id.
	ConversationID *int64 `json:"conversationId"`
}

// ChatResult is the backend's completion response.
type ChatResult struct {
	Response       string `json:"response"`
	MessageID      int64  `json:"messageId,omitempty"`
	ConversationID int64  `json:"conversationId,omitempty"`
}

type remainingQueriesResponse struct {
	RemainingQueries int `json:"remainingQueries"`
}
