// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements command-line argument handling and the plain-mode
// REPL used when the TUI is unavailable or explicitly disabled.
package cli
