// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jeranaias/modpack-tui/internal/model"
	"github.com/jeranaias/modpack-tui/internal/util"
)

const (
	// DefaultBaseURL is the base URL for the ModpackGPT backend.
	DefaultBaseURL = "http://localhost:8080"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// Caps memory usage when the backend misbehaves.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// defaultRequestsPerSecond bounds outgoing request rate so a scripted
	// plain-mode session cannot hammer the backend.
	defaultRequestsPerSecond = 5
)

// Connection pooling is shared across all requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks JSON-over-HTTP to the ModpackGPT backend: auth, conversation
// CRUD, chat completion, and the remaining-query counter. The bearer token
// is attached to every authenticated call; Login/Register run without one.
//
// Requests are never retried. The completion endpoint charges quota per
// request, so a retry could double-spend a user's remaining queries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
	verbose    bool

	mu    sync.RWMutex
	token string
}

// NewClient creates a new backend client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: sharedHTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultRequestsPerSecond),
		logger:     log.Default(),
	}
}

// WithTimeout sets a custom request timeout. Creates a dedicated HTTP
// client so the shared pooled client keeps its default.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	clone := *sharedHTTPClient
	clone.Timeout = timeout
	c.httpClient = &clone
	return c
}

// WithLogger sets the logger used for request/response lines.
func (c *Client) WithLogger(logger *log.Logger) *Client {
	c.logger = logger
	return c
}

// WithVerbose enables request/response logging.
func (c *Client) WithVerbose(verbose bool) *Client {
	c.verbose = verbose
	return c
}

// WithRateLimit overrides the client-side request rate limit.
func (c *Client) WithRateLimit(perSecond float64, burst int) *Client {
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	return c
}

// SetToken installs the bearer token for authenticated calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// HasToken reports whether a bearer token is installed.
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// Login authenticates with the backend and returns the issued token.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login",
		loginRequest{Username: username, Password: password}, &result, false)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a new account. The returned token is empty because new
// accounts are pending admin approval; callers must not store it.
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register",
		registerRequest{Username: username, Email: email, Password: password}, &result, false)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// CONVERSATION ENDPOINTS
// =============================================================================

// Conversations returns the user's conversation list in backend order.
func (c *Client) Conversations(ctx context.Context) ([]model.ConversationSummary, error) {
	var wire []conversationWire
	if err := c.doJSON(ctx, http.MethodGet, "/api/conversations", nil, &wire, true); err != nil {
		return nil, err
	}
	summaries := make([]model.ConversationSummary, 0, len(wire))
	for _, w := range wire {
		summaries = append(summaries, model.ConversationSummary{
			ID:           w.ID,
			Title:        w.Title,
			CreatedAt:    w.CreatedAt.Time,
			UpdatedAt:    w.UpdatedAt.Time,
			MessageCount: w.MessageCount,
		})
	}
	return summaries, nil
}

// Messages returns a conversation's full history, oldest first.
func (c *Client) Messages(ctx context.Context, conversationID int64) ([]model.Message, error) {
	path := "/api/conversations/" + util.Int64ToString(conversationID) + "/messages"
	var wire []messageWire
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &wire, true); err != nil {
		return nil, err
	}
	messages := make([]model.Message, 0, len(wire))
	for _, w := range wire {
		messages = append(messages, model.Message{
			ID:        uuid.NewString(),
			ServerID:  w.ID,
			Role:      model.RoleFromWire(w.Role),
			Content:   w.Content,
			Timestamp: w.CreatedAt.Time,
		})
	}
	return messages, nil
}

// CreateConversation creates a named empty conversation.
func (c *Client) CreateConversation(ctx context.Context, title string) (model.ConversationSummary, error) {
	var w conversationWire
	err := c.doJSON(ctx, http.MethodPost, "/api/conversations",
		titleRequest{Title: title}, &w, true)
	if err != nil {
		return model.ConversationSummary{}, err
	}
	return model.ConversationSummary{
		ID:           w.ID,
		Title:        w.Title,
		CreatedAt:    w.CreatedAt.Time,
		UpdatedAt:    w.UpdatedAt.Time,
		MessageCount: w.MessageCount,
	}, nil
}

// DeleteConversation deletes a conversation and its messages.
func (c *Client) DeleteConversation(ctx context.Context, conversationID int64) error {
	path := "/api/conversations/" + util.Int64ToString(conversationID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, true)
}

// RenameConversation updates a conversation's title.
func (c *Client) RenameConversation(ctx context.Context, conversationID int64, title string) error {
	path := "/api/conversations/" + util.Int64ToString(conversationID) + "/title"
	return c.doJSON(ctx, http.MethodPatch, path, titleRequest{Title: title}, nil, true)
}

// =============================================================================
// COMPLETION ENDPOINTS
// =============================================================================

// Chat sends a prompt to the completion endpoint. conversationID 0 means a
// new, unsaved conversation; the backend creates one and returns its id in
// the result.
func (c *Client) Chat(ctx context.Context, prompt string, conversationID int64) (*ChatResult, error) {
	req := chatRequest{Prompt: prompt}
	if conversationID != 0 {
		req.ConversationID = &conversationID
	}
	var result ChatResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/llm/chat", req, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

// RemainingQueries returns the user's remaining completion quota.
func (c *Client) RemainingQueries(ctx context.Context) (int, error) {
	var resp remainingQueriesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/llm/remaining-queries", nil, &resp, true); err != nil {
		return 0, err
	}
	return resp.RemainingQueries, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// doJSON performs a single request against the backend and decodes the
// response into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, reqBody, out any, authed bool) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var bodyReader io.Reader
	if reqBody != nil {
		bodyBytes, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, authed)

	start := time.Now()
	resp, err := c.httpClient.Do(req)

	// Clear the Authorization header immediately so it can never leak
	// through request dumps.
	req.Header.Del("Authorization")

	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logResponse(method, path, resp.StatusCode, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleErrorResponse(resp.StatusCode, body)
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// setHeaders sets the standard headers for backend requests.
func (c *Client) setHeaders(req *http.Request, authed bool) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if authed {
		c.mu.RLock()
		token := c.token
		c.mu.RUnlock()
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// logResponse writes one line per completed request when verbose.
func (c *Client) logResponse(method, path string, status int, duration time.Duration) {
	if !c.verbose || c.logger == nil {
		return
	}
	c.logger.Printf("api: %s %s -> %d (%s)", method, path, status, duration.Round(time.Millisecond))
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts HTTP error responses to typed Go errors.
// 401 and 403 always map to ErrUnauthorized regardless of which endpoint
// produced them; the session controller turns that into a forced logout.
func handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		switch statusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
		default:
			return &Error{Status: statusCode, Message: apiErr.Message}
		}
	}

	// Fallback for unparseable error bodies.
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return &Error{Status: statusCode, Message: string(body)}
	}
}
