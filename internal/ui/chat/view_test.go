// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/modpack-tui/internal/api"
	"github.com/jeranaias/modpack-tui/internal/chat"
	"github.com/jeranaias/modpack-tui/internal/conversation"
	"github.com/jeranaias/modpack-tui/internal/creds"
	"github.com/jeranaias/modpack-tui/internal/quota"
	"github.com/jeranaias/modpack-tui/internal/session"
	"github.com/jeranaias/modpack-tui/internal/ui/styles"
)

// handle registers a handler for method+path. Equivalent to the Go 1.22+
// "METHOD /path" ServeMux pattern, spelled out for older toolchains.
func handle(mux *http.ServeMux, method, path string, h http.HandlerFunc) {
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	})
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	handle(mux, "POST", "/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"token": "tok", "username": "steve"})
	})
	handle(mux, "GET", "/api/conversations", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "title": "Crash on startup"},
		})
	})
	handle(mux, "GET", "/api/conversations/1/messages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 10, "role": "USER", "content": "help"},
			{"id": 11, "role": "ASSISTANT", "content": "Sure."},
		})
	})
	handle(mux, "POST", "/api/llm/chat", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"response": "Allocate more RAM.", "messageId": 12, "conversationId": 1,
		})
	})
	handle(mux, "GET", "/api/llm/remaining-queries", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"remainingQueries": 5})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testController(t *testing.T, server *httptest.Server) *chat.Controller {
	t.Helper()
	client := api.NewClient(server.URL)
	store, err := creds.NewStoreAt(t.TempDir() + "/credentials.toml")
	require.NoError(t, err)
	sess := session.NewController(store, client)
	convs := conversation.NewStore(client)
	tracker := quota.NewTracker(client)
	return chat.NewController(client, sess, convs, tracker)
}

func testModel(t *testing.T, ctrl *chat.Controller) Model {
	m := New(ctrl, styles.NewTheme(true), Options{Markdown: false, SidebarWidth: 24})
	m.SetSize(100, 30)
	return m
}

func TestPlaceholderStates(t *testing.T) {
	server := testServer(t)
	ctrl := testController(t, server)
	m := testModel(t, ctrl)
	assert.Equal(t, placeholderLoggedOut, m.input.Placeholder)

	_, err := ctrl.Login(context.Background(), "steve", "hunter22")
	require.NoError(t, err)
	m.syncFromController()
	assert.Equal(t, placeholderReady, m.input.Placeholder)
}

func TestSendTurnUpdatesViewport(t *testing.T) {
	server := testServer(t)
	ctrl := testController(t, server)
	_, err := ctrl.Login(context.Background(), "steve", "hunter22")
	require.NoError(t, err)

	m := testModel(t, ctrl)
	msg := sendCmd(ctrl, "how do I allocate more RAM?")()
	done, ok := msg.(SendDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)

	m, _ = m.Update(done)
	assert.False(t, m.sending)
	assert.Contains(t, m.viewport.View(), "Allocate more RAM.")
}

func TestSessionExpiredSendEmitsMessage(t *testing.T) {
	server := testServer(t)
	ctrl := testController(t, server)
	m := testModel(t, ctrl)

	m, cmd := m.Update(SendDoneMsg{Result: chat.SendResult{
		SessionExpired: true,
		Notice:         session.NoticeSessionExpired,
	}})
	require.NotNil(t, cmd)

	out := cmd()
	expired, ok := out.(SessionExpiredMsg)
	require.True(t, ok)
	assert.Equal(t, session.NoticeSessionExpired, expired.Notice)
}

func TestLogoutCommandEmitsMessage(t *testing.T) {
	server := testServer(t)
	ctrl := testController(t, server)
	_, err := ctrl.Login(context.Background(), "steve", "hunter22")
	require.NoError(t, err)

	m := testModel(t, ctrl)
	m, cmd := m.submit("/logout")
	require.NotNil(t, cmd)

	out := cmd()
	logged, ok := out.(LoggedOutMsg)
	require.True(t, ok)
	assert.Equal(t, session.NoticeLoggedOut, logged.Notice)
	assert.Equal(t, placeholderLoggedOut, m.input.Placeholder)
}

func TestListCommandRefreshesConversations(t *testing.T) {
	server := testServer(t)
	ctrl := testController(t, server)
	_, err := ctrl.Login(context.Background(), "steve", "hunter22")
	require.NoError(t, err)

	m := testModel(t, ctrl)
	m, cmd := m.submit("/list")
	assert.True(t, m.sidebar.Focused())
	require.NotNil(t, cmd)

	out := cmd()
	done, ok := out.(RefreshDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)

	m, _ = m.Update(done)
	assert.NotZero(t, ctrl.Conversations().Len())
}

func TestUnknownCommandToast(t *testing.T) {
	server := testServer(t)
	ctrl := testController(t, server)
	m := testModel(t, ctrl)

	m, _ = m.submit("/frobnicate")
	assert.Contains(t, m.toast.Message, "/frobnicate")
}

func TestSidebarSelectLoadsTranscript(t *testing.T) {
	server := testServer(t)
	ctrl := testController(t, server)
	_, err := ctrl.Login(context.Background(), "steve", "hunter22")
	require.NoError(t, err)
	require.NoError(t, ctrl.RefreshAll(context.Background()))

	m := testModel(t, ctrl)
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.sidebar.Focused())

	m, cmd := m.handleSidebarKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	done, ok := msg.(SelectDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)

	m, _ = m.Update(done)
	assert.Contains(t, m.viewport.View(), "Sure.")
	assert.False(t, m.sidebar.Focused())
}
