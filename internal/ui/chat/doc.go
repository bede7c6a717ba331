// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatview provides the main chat screen for the TUI: transcript
// viewport, conversation sidebar, input line, and status bar, all driven by
// the chat controller.
package chatview
