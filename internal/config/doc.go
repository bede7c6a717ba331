// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and saves the modpack-tui configuration.
//
// Configuration lives in ~/.modpack-tui/config.toml. Load order: file,
// then MODPACK_* environment overrides, then validation. Watch provides
// live reload for long-running sessions.
package config
