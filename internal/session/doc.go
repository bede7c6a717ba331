// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the authentication controller.
//
// The controller is the single place where "the server rejected my token"
// is reconciled with local state: HandleUnauthorized behaves like a logout
// plus a session-expired notice, and is safe to call repeatedly. Login
// persists credentials through the creds store; Register never stores a
// token because new accounts are pending admin approval.
package session
