// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the modpack-tui client.
//
// This package contains common helpers used throughout the application for
// string display (width-aware truncation for the sidebar), type conversion,
// and crash-safe file writes (credentials, config).
//
//	display := util.TruncateWidth(title, 28)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
