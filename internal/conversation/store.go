// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation owns the conversation summary list and the active
// conversation id.
package conversation

import (
	"context"
	"sync"

	"github.com/jeranaias/modpack-tui/internal/api"
	"github.com/jeranaias/modpack-tui/internal/model"
)

// NoActive is the active id of a new, unsaved conversation. Sending a
// message in this state makes the backend create a conversation; the
// client then adopts the returned id.
const NoActive int64 = 0

// =============================================================================
// STORE
// =============================================================================

// Store mediates create/select/rename/delete over the user's conversations.
// The summary list mirrors the backend wholesale: refreshes replace it,
// renames touch a single title only after the backend confirmed, deletes
// remove remotely first. It is never locally re-sorted.
type Store struct {
	mu     sync.RWMutex
	client *api.Client

	summaries []model.ConversationSummary
	activeID  int64
}

// NewStore creates an empty conversation store.
func NewStore(client *api.Client) *Store {
	return &Store{client: client}
}

// Summaries returns a copy of the summary list in backend order.
func (s *Store) Summaries() []model.ConversationSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ConversationSummary(nil), s.summaries...)
}

// Len returns the number of conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.summaries)
}

// ActiveID returns the active conversation id, NoActive for a new unsaved
// conversation.
func (s *Store) ActiveID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// HasActive reports whether a saved conversation is active.
func (s *Store) HasActive() bool {
	return s.ActiveID() != NoActive
}

// ActiveTitle returns the active conversation's title, empty when no saved
// conversation is active.
func (s *Store) ActiveTitle() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.summaries {
		if c.ID == s.activeID {
			return c.DisplayTitle()
		}
	}
	return ""
}

// =============================================================================
// OPERATIONS
// =============================================================================

// RefreshList replaces the summary list with the backend's current list.
// Never merges or patches; on failure the previous list stays.
func (s *Store) RefreshList(ctx context.Context) error {
	list, err := s.client.Conversations(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.summaries = list
	s.mu.Unlock()
	return nil
}

// Select loads a conversation's full history (oldest first) and makes it
// active. On failure nothing changes: the previous active id stands and
// the caller keeps its current transcript.
func (s *Store) Select(ctx context.Context, id int64) ([]model.Message, error) {
	messages, err := s.client.Messages(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.activeID = id
	s.mu.Unlock()
	return messages, nil
}

// StartNew switches to a new, unsaved conversation. No backend call.
func (s *Store) StartNew() {
	s.mu.Lock()
	s.activeID = NoActive
	s.mu.Unlock()
}

// AdoptActive installs the id the backend assigned when a send in a new
// conversation created one.
func (s *Store) AdoptActive(id int64) {
	s.mu.Lock()
	s.activeID = id
	s.mu.Unlock()
}

// Create makes a named empty conversation, refreshes the list, and selects
// it.
func (s *Store) Create(ctx context.Context, title string) (model.ConversationSummary, error) {
	summary, err := s.client.CreateConversation(ctx, title)
	if err != nil {
		return model.ConversationSummary{}, err
	}
	// List refresh is best-effort; the new conversation is active either way.
	_ = s.RefreshList(ctx)
	s.mu.Lock()
	s.activeID = summary.ID
	s.mu.Unlock()
	return summary, nil
}

// Rename updates a conversation's title. The local title changes only
// after the backend confirmed, so a failure never leaves a partial rename
// visible.
func (s *Store) Rename(ctx context.Context, id int64, title string) error {
	if err := s.client.RenameConversation(ctx, id, title); err != nil {
		return err
	}
	s.mu.Lock()
	for i := range s.summaries {
		if s.summaries[i].ID == id {
			s.summaries[i].Title = title
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Remove deletes a conversation remotely, then locally. Reports whether
// the removed conversation was the active one so the caller can behave
// like StartNew.
func (s *Store) Remove(ctx context.Context, id int64) (wasActive bool, err error) {
	if err := s.client.DeleteConversation(ctx, id); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.summaries[:0]
	for _, c := range s.summaries {
		if c.ID != id {
			filtered = append(filtered, c)
		}
	}
	s.summaries = filtered

	if s.activeID == id {
		s.activeID = NoActive
		return true, nil
	}
	return false, nil
}

// Clear empties the store. Called on logout so no stale data survives.
func (s *Store) Clear() {
	s.mu.Lock()
	s.summaries = nil
	s.activeID = NoActive
	s.mu.Unlock()
}
