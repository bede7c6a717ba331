// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"
)

// =============================================================================
// CONVERSATION SUMMARY
// =============================================================================

// ConversationSummary is one row of the backend's conversation list. The
// list is kept in the backend's order (most recent first) and never locally
// re-sorted.
type ConversationSummary struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	MessageCount int       `json:"messageCount"`
}

// DisplayTitle returns the title, falling back to a placeholder for
// untitled conversations.
func (c ConversationSummary) DisplayTitle() string {
	if c.Title == "" {
		return "(untitled)"
	}
	return c.Title
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the ordered message list for the active conversation.
// Insertion order is chronological order; entries are only ever appended
// within a turn, replaced wholesale on conversation switch, or cleared.
type Transcript struct {
	messages []Message
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(msg Message) {
	t.messages = append(t.messages, msg)
}

// Replace swaps the entire contents for the given messages. Used when a
// conversation is selected: the transcript always matches the active
// conversation, never a merge of two.
func (t *Transcript) Replace(messages []Message) {
	t.messages = append([]Message(nil), messages...)
}

// Clear removes all messages.
func (t *Transcript) Clear() {
	t.messages = nil
}

// Messages returns a copy of the message list.
func (t *Transcript) Messages() []Message {
	return append([]Message(nil), t.messages...)
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// IsEmpty returns true if the transcript has no messages.
func (t *Transcript) IsEmpty() bool {
	return len(t.messages) == 0
}

// Last returns the most recent message, or false if the transcript is empty.
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}
