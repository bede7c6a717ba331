// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/modpack-tui/internal/api"
	"github.com/jeranaias/modpack-tui/internal/creds"
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

func testSession(t *testing.T, handler http.Handler) *session.Controller {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL)
	store, err := creds.NewStoreAt(t.TempDir() + "/credentials.toml")
	require.NoError(t, err)
	return session.NewController(store, client)
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestLoginSuccess(t *testing.T) {
	mux := http.NewServeMux()
	handle(mux, "POST", "/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"token": "tok", "username": "steve"})
	})
	sess := testSession(t, mux)

	m := New(sess, styles.NewTheme(true))
	m = typeText(m, "steve")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "hunter22")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	done, ok := msg.(LoginDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Equal(t, "Welcome back, steve!", done.Notice)
	assert.True(t, sess.IsAuthenticated())

	m, _ = m.Update(done)
	assert.False(t, m.busy)
}

func TestLoginRejectedShowsAPIMessage(t *testing.T) {
	mux := http.NewServeMux()
	handle(mux, "POST", "/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"message": "Bad credentials"})
	})
	sess := testSession(t, mux)

	m := New(sess, styles.NewTheme(true))
	m = typeText(m, "steve")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "wrong")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	done := cmd().(LoginDoneMsg)
	require.Error(t, done.Err)

	m, _ = m.Update(done)
	assert.Contains(t, m.View(), session.NoticeLoginFailed)
	assert.False(t, sess.IsAuthenticated())
}

func TestEmptyFieldsRejectedLocally(t *testing.T) {
	sess := testSession(t, http.NewServeMux())

	m := New(sess, styles.NewTheme(true))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	done := cmd().(LoginDoneMsg)
	require.Error(t, done.Err)
	assert.Equal(t, "Please enter both username and password", done.Notice)
}

func TestRegisterValidationStopsBeforeNetwork(t *testing.T) {
	// No register route: a network call would fail loudly.
	sess := testSession(t, http.NewServeMux())

	m := New(sess, styles.NewTheme(true))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, ModeRegister, m.Mode())

	m = typeText(m, "ab") // too short
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "All fields are required")
}

func TestRegisterSuccessReturnsToLogin(t *testing.T) {
	mux := http.NewServeMux()
	handle(mux, "POST", "/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"token": nil, "username": "newbie"})
	})
	sess := testSession(t, mux)

	m := New(sess, styles.NewTheme(true))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})

	m = typeText(m, "newbie")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "newbie@example.com")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "longenough")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "longenough")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	done := cmd().(RegisterDoneMsg)
	require.NoError(t, done.Err)
	assert.Contains(t, done.Notice, "pending admin approval")
	assert.False(t, sess.IsAuthenticated())

	m, _ = m.Update(done)
	assert.Equal(t, ModeLogin, m.Mode())
	assert.Contains(t, m.View(), "pending admin approval")
}

func TestSwitchingModeClearsState(t *testing.T) {
	sess := testSession(t, http.NewServeMux())
	m := New(sess, styles.NewTheme(true))
	m = typeText(m, "steve")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Empty(t, m.inputs[fieldUsername].Value())
}
