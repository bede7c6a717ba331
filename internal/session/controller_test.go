// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/modpack-tui/internal/api"
	"github.com/jeranaias/modpack-tui/internal/creds"
)

func newTestController(t *testing.T, handler http.Handler) (*Controller, *creds.Store, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := creds.NewStoreAt(filepath.Join(t.TempDir(), "credentials.toml"))
	require.NoError(t, err)

	client := api.NewClient(server.URL).WithRateLimit(1000, 1000)
	return NewController(store, client), store, server
}

func authOKHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			w.Write([]byte(`{"token":"tok-123","username":"steve","email":"s@example.com","role":"USER"}`))
		case "/api/auth/register":
			w.Write([]byte(`{"token":null,"username":"alex","email":"a@example.com","role":"USER"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestLoginSuccess(t *testing.T) {
	ctrl, store, _ := newTestController(t, authOKHandler())

	notice, err := ctrl.Login(context.Background(), "steve", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "Welcome back, steve!", notice)
	assert.True(t, ctrl.IsAuthenticated())
	assert.Equal(t, "steve", ctrl.Username())
	assert.Equal(t, "tok-123", store.Token())
}

func TestLoginLocalValidation(t *testing.T) {
	var calls atomic.Int32
	ctrl, _, _ := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := ctrl.Login(context.Background(), "", "pw")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "Please enter both username and password", err.Error())
	assert.Zero(t, calls.Load(), "no network call for an empty form")
}

func TestLoginFailureMessage(t *testing.T) {
	ctrl, _, _ := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{}`))
	}))

	_, err := ctrl.Login(context.Background(), "steve", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Login failed. Please check your credentials.")
	assert.False(t, ctrl.IsAuthenticated())
}

func TestRegisterDoesNotStoreToken(t *testing.T) {
	ctrl, store, _ := newTestController(t, authOKHandler())

	notice, err := ctrl.Register(context.Background(), "alex", "a@example.com", "longenough", "longenough")
	require.NoError(t, err)
	assert.Equal(t, "Registration successful, alex! Your account is pending admin approval.", notice)
	assert.False(t, ctrl.IsAuthenticated())
	assert.Empty(t, store.Token())
}

func TestRegisterValidationRunsBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	ctrl, _, _ := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	cases := []struct {
		name     string
		username string
		email    string
		password string
		confirm  string
		message  string
	}{
		{"empty fields", "", "", "", "", "All fields are required"},
		{"short username", "ab", "a@example.com", "longenough", "longenough", "Username must be between 3 and 20 characters"},
		{"bad email", "alex", "nope", "longenough", "longenough", "Please enter a valid email address"},
		{"short password", "alex", "a@example.com", "tiny5", "tiny5", "Password must be at least 8 characters"},
		{"mismatch", "alex", "a@example.com", "longenough", "different", "Passwords do not match"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ctrl.Register(context.Background(), tc.username, tc.email, tc.password, tc.confirm)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Equal(t, tc.message, err.Error())
		})
	}

	assert.Zero(t, calls.Load(), "validation failures must not reach the network")
}

func TestLogout(t *testing.T) {
	ctrl, store, _ := newTestController(t, authOKHandler())
	_, err := ctrl.Login(context.Background(), "steve", "hunter22")
	require.NoError(t, err)

	notice := ctrl.Logout()
	assert.Equal(t, NoticeLoggedOut, notice)
	assert.False(t, ctrl.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.Empty(t, ctrl.Username())
}

func TestHandleUnauthorizedIsIdempotent(t *testing.T) {
	ctrl, store, _ := newTestController(t, authOKHandler())
	_, err := ctrl.Login(context.Background(), "steve", "hunter22")
	require.NoError(t, err)

	notice, ok := ctrl.HandleUnauthorized()
	assert.True(t, ok)
	assert.Equal(t, NoticeSessionExpired, notice)
	assert.False(t, ctrl.IsAuthenticated())
	assert.Empty(t, store.Token())

	// A second rejection (another in-flight call failing) is silent.
	notice, ok = ctrl.HandleUnauthorized()
	assert.False(t, ok)
	assert.Empty(t, notice)

	// Logging back in re-arms the notice.
	_, err = ctrl.Login(context.Background(), "steve", "hunter22")
	require.NoError(t, err)
	_, ok = ctrl.HandleUnauthorized()
	assert.True(t, ok)
}

func TestPersistedTokenRestoresSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")
	store, err := creds.NewStoreAt(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("tok-persisted", "steve"))

	client := api.NewClient("http://unused.example")
	ctrl := NewController(store, client)
	assert.True(t, ctrl.IsAuthenticated())
	assert.True(t, client.HasToken())
}
