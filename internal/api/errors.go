// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"strings"
)

// Error variables for common backend errors.
var (
	// ErrUnauthorized indicates the backend rejected the bearer token
	// (401 or 403). Callers must treat this as a forced logout.
	ErrUnauthorized = errors.New("authentication rejected")

	// ErrQuotaExhausted indicates the user has no remaining queries.
	ErrQuotaExhausted = errors.New("query limit reached")

	// ErrNotFound indicates the requested conversation does not exist.
	ErrNotFound = errors.New("not found")
)

// Error represents an error response from the ModpackGPT backend.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// apiErrorResponse is the backend's error body shape.
type apiErrorResponse struct {
	Message string `json:"message"`
}

// IsUnauthorized reports whether err is an authentication rejection.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsQuotaExhausted reports whether err indicates the query limit was hit.
// The backend signals this through the error message text, so both the
// typed sentinel and the raw message are checked.
func IsQuotaExhausted(err error) bool {
	if errors.Is(err, ErrQuotaExhausted) {
		return true
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return strings.Contains(strings.ToLower(apiErr.Message), "query limit")
	}
	return false
}

// UserMessage extracts the human-readable message from an error, falling
// back to the given text when the error carries no server message. Network
// and parse failures never reach the view as raw errors.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
