// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package quota tracks the user's remaining completion queries.
package quota

import (
	"context"
	"log"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jeranaias/modpack-tui/internal/api"
)

// LowThreshold is the remaining count at or below which the UI switches to
// the warning color.
const LowThreshold = 2

var statusPrinter = message.NewPrinter(language.English)

// =============================================================================
// TRACKER
// =============================================================================

// Tracker owns the remaining-query counter. The value is unknown until the
// first successful refresh; a failed refresh keeps the previous value so a
// transient error never blanks out a known quota.
type Tracker struct {
	mu     sync.RWMutex
	client *api.Client

	remaining int
	known     bool
}

// NewTracker creates a tracker with an unknown quota.
func NewTracker(client *api.Client) *Tracker {
	return &Tracker{client: client}
}

// Remaining returns the counter and whether it is known.
func (t *Tracker) Remaining() (int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.remaining, t.known
}

// Exhausted reports whether the user is known to have zero queries left.
func (t *Tracker) Exhausted() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.known && t.remaining == 0
}

// Low reports whether the known quota is at or below the warning
// threshold.
func (t *Tracker) Low() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.known && t.remaining <= LowThreshold
}

// Refresh fetches the remaining count. Best-effort: failures keep the
// previous value and are logged, not surfaced. The error is still returned
// so callers can detect an authentication rejection.
func (t *Tracker) Refresh(ctx context.Context) error {
	n, err := t.client.RemainingQueries(ctx)
	if err != nil {
		log.Printf("quota: refresh failed: %v", err)
		return err
	}
	t.mu.Lock()
	t.remaining = n
	t.known = true
	t.mu.Unlock()
	return nil
}

// MarkExhausted pins the counter at zero. Used when the backend reports a
// query-limit failure so further sends are blocked without a round trip.
func (t *Tracker) MarkExhausted() {
	t.mu.Lock()
	t.remaining = 0
	t.known = true
	t.mu.Unlock()
}

// Clear resets the counter to unknown. Called on logout.
func (t *Tracker) Clear() {
	t.mu.Lock()
	t.remaining = 0
	t.known = false
	t.mu.Unlock()
}

// StatusLine renders the caption shown under the input.
func (t *Tracker) StatusLine() string {
	n, known := t.Remaining()
	if !known {
		return "ModpackGPT can make mistakes. Verify important information."
	}
	return statusPrinter.Sprintf("%d queries remaining • ModpackGPT can make mistakes. Verify important information.", n)
}
