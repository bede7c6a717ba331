// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/jeranaias/modpack-tui/internal/ui/styles"
)

// =============================================================================
// NOTICE TOAST
// =============================================================================

// ToastKind selects the toast style.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastError
)

// Toast durations. Errors stay longer so they can be read.
const (
	InfoToastDuration  = 4 * time.Second
	ErrorToastDuration = 8 * time.Second
)

// Toast is a transient notice line shown above the input. It auto-expires;
// the view drops it once IsExpired reports true.
type Toast struct {
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// NewToast creates an informational toast.
func NewToast(message string) Toast {
	return Toast{
		Message:   message,
		Kind:      ToastInfo,
		CreatedAt: time.Now(),
		Duration:  InfoToastDuration,
	}
}

// NewErrorToast creates an error toast with a longer lifetime.
func NewErrorToast(message string) Toast {
	return Toast{
		Message:   message,
		Kind:      ToastError,
		CreatedAt: time.Now(),
		Duration:  ErrorToastDuration,
	}
}

// IsZero reports whether the toast is unset.
func (t Toast) IsZero() bool {
	return t.Message == ""
}

// IsExpired reports whether the toast should be dropped.
func (t Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

// Render renders the toast with the given theme, empty when unset or
// expired.
func (t Toast) Render(theme *styles.Theme) string {
	if t.IsZero() || t.IsExpired() {
		return ""
	}
	if t.Kind == ToastError {
		return theme.NoticeError.Render(t.Message)
	}
	return theme.Notice.Render(t.Message)
}
