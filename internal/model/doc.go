// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the client-side data structures: message roles,
// transcript entries, conversation summaries, and the transcript itself.
//
// Nothing here talks to the network. The api package decodes wire shapes
// into these types; the stores in conversation, quota, and chat own them.
package model
