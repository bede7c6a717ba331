// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles defines the adaptive color palette and lip gloss styles
// shared by every view in the client.
package styles
