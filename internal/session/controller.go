// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns authentication state: the authenticated flag, the
// username, and the forced-logout reaction to rejected tokens.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/jeranaias/modpack-tui/internal/api"
	"github.com/jeranaias/modpack-tui/internal/creds"
)

// User-facing notices. These match the messages users of the web client
// already know.
const (
	NoticeLoggedOut      = "Logged out successfully"
	NoticeSessionExpired = "Session expired. Please login again."

	NoticeLoginFailed    = "Login failed. Please check your credentials."
	NoticeRegisterFailed = "Failed to register. Please try again."
)

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError is a client-side form rejection. It is raised before any
// network call is made.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is a local form rejection.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller tracks whether the user is logged in and reconciles local
// state when the backend rejects the token. All mutations go through the
// credential store; the bearer token on the API client is kept in sync.
type Controller struct {
	mu     sync.Mutex
	creds  *creds.Store
	client *api.Client

	// expired is set by HandleUnauthorized and cleared on the next login,
	// making the forced-logout path idempotent.
	expired bool
}

// NewController creates a session controller. A token persisted from a
// previous run is installed on the API client, so the user starts
// authenticated.
func NewController(store *creds.Store, client *api.Client) *Controller {
	c := &Controller{creds: store, client: client}
	if token := store.Token(); token != "" {
		client.SetToken(token)
	}
	return c
}

// IsAuthenticated reports whether a bearer token is present.
func (c *Controller) IsAuthenticated() bool {
	return c.creds.IsAuthenticated()
}

// Username returns the logged-in user's display name, empty when logged
// out.
func (c *Controller) Username() string {
	return c.creds.Username()
}

// =============================================================================
// LOGIN / REGISTER
// =============================================================================

// Login authenticates against the backend, persists the issued token, and
// returns a welcome notice. Empty fields are rejected locally.
func (c *Controller) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", &ValidationError{Message: "Please enter both username and password"}
	}

	result, err := c.client.Login(ctx, username, password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", api.UserMessage(err, NoticeLoginFailed), err)
	}

	c.mu.Lock()
	c.expired = false
	c.mu.Unlock()

	if err := c.creds.Set(result.Token, result.Username); err != nil {
		// The session is still usable in-memory; persistence failed.
		log.Printf("session: failed to persist credentials: %v", err)
	}
	c.client.SetToken(result.Token)

	return fmt.Sprintf("Welcome back, %s!", result.Username), nil
}

// Register creates a new account. The backend returns no token because new
// accounts are pending admin approval, so nothing is stored and the user
// stays logged out. All field checks run before any network call.
func (c *Controller) Register(ctx context.Context, username, email, password, confirm string) (string, error) {
	if err := ValidateRegistration(username, email, password, confirm); err != nil {
		return "", err
	}

	result, err := c.client.Register(ctx, strings.TrimSpace(username), strings.TrimSpace(email), password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", api.UserMessage(err, NoticeRegisterFailed), err)
	}

	return fmt.Sprintf("Registration successful, %s! Your account is pending admin approval.", result.Username), nil
}

// ValidateRegistration applies the registration form rules.
func ValidateRegistration(username, email, password, confirm string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return &ValidationError{Message: "All fields are required"}
	}
	if len([]rune(username)) < 3 || len([]rune(username)) > 20 {
		return &ValidationError{Message: "Username must be between 3 and 20 characters"}
	}
	if !strings.Contains(email, "@") {
		return &ValidationError{Message: "Please enter a valid email address"}
	}
	if len(password) < 8 {
		return &ValidationError{Message: "Password must be at least 8 characters"}
	}
	if password != confirm {
		return &ValidationError{Message: "Passwords do not match"}
	}
	return nil
}

// =============================================================================
// LOGOUT
// =============================================================================

// Logout clears the persisted credentials and the client token. Purely
// local; never fails. Returns the logout notice.
func (c *Controller) Logout() string {
	c.mu.Lock()
	c.expired = false
	c.mu.Unlock()

	c.clearLocal()
	return NoticeLoggedOut
}

// HandleUnauthorized reconciles "the server says my token is invalid" with
// local state: clears credentials like Logout and returns the session
// expired notice. Idempotent: only the first call after a login reports
// the notice, repeats return ok=false with no further side effects.
func (c *Controller) HandleUnauthorized() (notice string, ok bool) {
	c.mu.Lock()
	if c.expired {
		c.mu.Unlock()
		return "", false
	}
	c.expired = true
	c.mu.Unlock()

	c.clearLocal()
	return NoticeSessionExpired, true
}

// clearLocal drops the token from the store and the API client.
func (c *Controller) clearLocal() {
	if err := c.creds.Clear(); err != nil {
		log.Printf("session: failed to clear credentials: %v", err)
	}
	c.client.ClearToken()
}
