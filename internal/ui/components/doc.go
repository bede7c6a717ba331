// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the chat TUI:
// message bubbles, the conversation sidebar, the status bar, spinners,
// toasts, and the welcome screen.
package components
