// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the ModpackGPT backend.
//
// The client covers four backend services behind one base URL:
//
//   - auth: POST /api/auth/login, POST /api/auth/register
//   - conversations: list, history, create, delete, rename
//   - completion: POST /api/llm/chat
//   - quota: GET /api/llm/remaining-queries
//
// Failures are normalized into typed errors. 401/403 from any endpoint
// becomes ErrUnauthorized so the caller can force a logout; other non-2xx
// responses become *Error carrying the backend's message field when the
// body is parseable. Requests are never retried because the completion
// endpoint spends quota per request.
package api
