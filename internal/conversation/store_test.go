// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/modpack-tui/internal/api"
	"github.com/jeranaias/modpack-tui/internal/model"
)

// fakeBackend is an in-memory conversation service. Keeping the store and
// the backend in lockstep lets the drift tests compare them directly.
type fakeBackend struct {
	mu            sync.Mutex
	conversations []map[string]any
	failRename    bool
	failDelete    bool
	failMessages  bool
}

func (f *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.URL.Path == "/api/conversations" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(f.conversations)

		case r.URL.Path == "/api/conversations" && r.Method == http.MethodPost:
			var req map[string]string
			json.NewDecoder(r.Body).Decode(&req)
			conv := map[string]any{"id": int64(len(f.conversations) + 100), "title": req["title"], "messageCount": 0}
			f.conversations = append([]map[string]any{conv}, f.conversations...)
			json.NewEncoder(w).Encode(conv)

		case strings.HasSuffix(r.URL.Path, "/messages"):
			if f.failMessages {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"message":"boom"}`))
				return
			}
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": 1, "content": "hello", "role": "USER", "createdAt": "2025-08-01T10:00:00"},
				{"id": 2, "content": "hi there", "role": "ASSISTANT", "createdAt": "2025-08-01T10:00:05"},
			})

		case strings.HasSuffix(r.URL.Path, "/title") && r.Method == http.MethodPatch:
			if f.failRename {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"message":"rename failed"}`))
				return
			}
			var req map[string]string
			json.NewDecoder(r.Body).Decode(&req)
			id := pathID(r.URL.Path, "/title")
			for _, c := range f.conversations {
				if c["id"] == id {
					c["title"] = req["title"]
				}
			}
			w.WriteHeader(http.StatusNoContent)

		case r.Method == http.MethodDelete:
			if f.failDelete {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"message":"delete failed"}`))
				return
			}
			id := pathID(r.URL.Path, "")
			kept := f.conversations[:0]
			for _, c := range f.conversations {
				if c["id"] != id {
					kept = append(kept, c)
				}
			}
			f.conversations = kept
			w.WriteHeader(http.StatusNoContent)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func pathID(path, suffix string) int64 {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, "/api/conversations/"), suffix)
	trimmed = strings.TrimSuffix(trimmed, "/")
	var id int64
	for _, r := range trimmed {
		id = id*10 + int64(r-'0')
	}
	return id
}

func (f *fakeBackend) titles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	titles := make([]string, 0, len(f.conversations))
	for _, c := range f.conversations {
		titles = append(titles, c["title"].(string))
	}
	return titles
}

func newTestStore(t *testing.T, backend *fakeBackend) *Store {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	client := api.NewClient(server.URL).WithRateLimit(1000, 1000)
	client.SetToken("tok")
	return NewStore(client)
}

func seededBackend() *fakeBackend {
	return &fakeBackend{conversations: []map[string]any{
		{"id": int64(2), "title": "Crash on startup", "messageCount": 6},
		{"id": int64(1), "title": "RAM allocation", "messageCount": 2},
	}}
}

func storeTitles(s *Store) []string {
	titles := make([]string, 0, s.Len())
	for _, c := range s.Summaries() {
		titles = append(titles, c.Title)
	}
	return titles
}

func TestRefreshListReplacesWholesale(t *testing.T) {
	backend := seededBackend()
	store := newTestStore(t, backend)

	require.NoError(t, store.RefreshList(context.Background()))
	assert.Equal(t, []string{"Crash on startup", "RAM allocation"}, storeTitles(store))
	assert.Equal(t, NoActive, store.ActiveID())
}

func TestSelectLoadsHistory(t *testing.T) {
	store := newTestStore(t, seededBackend())

	msgs, err := store.Select(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, int64(2), store.ActiveID())
	assert.True(t, store.HasActive())
}

func TestSelectFailureLeavesActiveUnchanged(t *testing.T) {
	backend := seededBackend()
	store := newTestStore(t, backend)

	_, err := store.Select(context.Background(), 2)
	require.NoError(t, err)

	backend.failMessages = true
	_, err = store.Select(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, int64(2), store.ActiveID(), "failed select must not move the active id")
}

func TestRenameMatchesBackend(t *testing.T) {
	backend := seededBackend()
	store := newTestStore(t, backend)
	require.NoError(t, store.RefreshList(context.Background()))

	require.NoError(t, store.Rename(context.Background(), 1, "Memory tuning"))
	assert.Equal(t, backend.titles(), storeTitles(store), "local list drifted from backend after rename")
	assert.Equal(t, "Memory tuning", store.Summaries()[1].Title)
}

func TestRenameFailureLeavesListUnchanged(t *testing.T) {
	backend := seededBackend()
	store := newTestStore(t, backend)
	require.NoError(t, store.RefreshList(context.Background()))

	backend.failRename = true
	err := store.Rename(context.Background(), 1, "Memory tuning")
	require.Error(t, err)
	assert.Equal(t, []string{"Crash on startup", "RAM allocation"}, storeTitles(store))
	assert.Equal(t, backend.titles(), storeTitles(store))
}

func TestRemoveMatchesBackend(t *testing.T) {
	backend := seededBackend()
	store := newTestStore(t, backend)
	require.NoError(t, store.RefreshList(context.Background()))

	wasActive, err := store.Remove(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, wasActive)
	assert.Equal(t, backend.titles(), storeTitles(store))
	assert.Equal(t, 1, store.Len())
}

func TestRemoveActiveBehavesLikeStartNew(t *testing.T) {
	store := newTestStore(t, seededBackend())
	_, err := store.Select(context.Background(), 2)
	require.NoError(t, err)

	wasActive, err := store.Remove(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, wasActive)
	assert.Equal(t, NoActive, store.ActiveID())
}

func TestRemoveFailureKeepsConversation(t *testing.T) {
	backend := seededBackend()
	store := newTestStore(t, backend)
	require.NoError(t, store.RefreshList(context.Background()))

	backend.failDelete = true
	_, err := store.Remove(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, backend.titles(), storeTitles(store))
}

func TestRenameDeleteSequencesNeverDrift(t *testing.T) {
	backend := seededBackend()
	store := newTestStore(t, backend)
	require.NoError(t, store.RefreshList(context.Background()))

	require.NoError(t, store.Rename(context.Background(), 2, "Startup crash (fixed)"))
	_, err := store.Remove(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, store.Rename(context.Background(), 2, "Startup crash"))

	assert.Equal(t, backend.titles(), storeTitles(store))
}

func TestCreateSelectsNewConversation(t *testing.T) {
	store := newTestStore(t, seededBackend())

	summary, err := store.Create(context.Background(), "Shader questions")
	require.NoError(t, err)
	assert.Equal(t, "Shader questions", summary.Title)
	assert.Equal(t, summary.ID, store.ActiveID())
	assert.Equal(t, 3, store.Len())
}

func TestClear(t *testing.T) {
	store := newTestStore(t, seededBackend())
	require.NoError(t, store.RefreshList(context.Background()))
	_, err := store.Select(context.Background(), 2)
	require.NoError(t, err)

	store.Clear()
	assert.Zero(t, store.Len())
	assert.Equal(t, NoActive, store.ActiveID())
	assert.Empty(t, store.ActiveTitle())
}

func TestAdoptActive(t *testing.T) {
	store := newTestStore(t, seededBackend())
	store.AdoptActive(99)
	assert.Equal(t, int64(99), store.ActiveID())
}
