// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the send-turn state machine that keeps the
// transcript, conversation store, quota tracker, and session consistent
// against a fallible backend.
package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/jeranaias/modpack-tui/internal/api"
	"github.com/jeranaias/modpack-tui/internal/conversation"
	"github.com/jeranaias/modpack-tui/internal/model"
	"github.com/jeranaias/modpack-tui/internal/quota"
	"github.com/jeranaias/modpack-tui/internal/session"
)

// Send guard errors. Each maps to a user-facing prompt in the view.
var (
	// ErrNotAuthenticated rejects a send while logged out.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSendInFlight rejects a send while a prior one is unresolved.
	ErrSendInFlight = errors.New("a send is already in flight")

	// ErrNoQuota rejects a send when the known remaining count is zero.
	ErrNoQuota = errors.New("no queries remaining")

	// ErrEmptyPrompt rejects a blank prompt.
	ErrEmptyPrompt = errors.New("empty prompt")
)

// User-facing notices for conversation operations.
const (
	NoticeLoginToChat   = "Please login to start chatting"
	NoticeDeleted       = "Conversation deleted"
	NoticeDeleteFailed  = "Failed to delete conversation"
	NoticeRenamed       = "Conversation renamed"
	NoticeRenameFailed  = "Failed to rename conversation"
	NoticeLoadFailed    = "Failed to load conversation"
	fallbackSendFailed  = "Failed to get response"
	fallbackListFailed  = "Failed to load conversations"
	fallbackTitleFailed = "Failed to create conversation"
)

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller coordinates the client-side state for one chat view. All
// methods are safe for concurrent use; Bubble Tea commands and the plain
// REPL call them from worker goroutines.
//
// A send turn runs Idle -> Sending -> settled. The Sending guard admits
// one turn at a time, and is released on every path out of Send. Each turn
// is tagged with the conversation id it targeted: a reply that lands after
// the user switched conversations is discarded instead of clobbering the
// wrong transcript.
type Controller struct {
	client  *api.Client
	session *session.Controller
	convs   *conversation.Store
	quota   *quota.Tracker

	mu         sync.Mutex
	transcript *model.Transcript
	sending    bool
}

// NewController wires the stores behind one chat surface.
func NewController(client *api.Client, sess *session.Controller, convs *conversation.Store, tracker *quota.Tracker) *Controller {
	return &Controller{
		client:     client,
		session:    sess,
		convs:      convs,
		quota:      tracker,
		transcript: model.NewTranscript(),
	}
}

// Session returns the session controller.
func (c *Controller) Session() *session.Controller { return c.session }

// Conversations returns the conversation store.
func (c *Controller) Conversations() *conversation.Store { return c.convs }

// Quota returns the quota tracker.
func (c *Controller) Quota() *quota.Tracker { return c.quota }

// Messages returns a snapshot of the active transcript.
func (c *Controller) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Messages()
}

// TranscriptLen returns the number of transcript entries.
func (c *Controller) TranscriptLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Len()
}

// IsSending reports whether a send is in flight. The view disables input
// affordances while true.
func (c *Controller) IsSending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// =============================================================================
// SEND PROTOCOL
// =============================================================================

// SendResult describes a settled send turn.
type SendResult struct {
	// Notice is a standalone message to surface, empty when none.
	Notice string

	// SessionExpired is set when the turn ended in a forced logout.
	SessionExpired bool

	// QuotaNotice is set when the failure was a quota-exhaustion and the
	// notice deserves standalone emphasis.
	QuotaNotice bool

	// ConversationCreated is set when a send in a new conversation adopted
	// a backend-assigned id and refreshed the list.
	ConversationCreated bool

	// Stale is set when the reply was discarded because the active
	// conversation changed while the send was in flight.
	Stale bool
}

// Send runs one complete turn: guard, optimistic append, completion call,
// settle. The optimistic user message always commits; the in-flight guard
// is always released.
func (c *Controller) Send(ctx context.Context, prompt string) (SendResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return SendResult{}, ErrEmptyPrompt
	}
	if !c.session.IsAuthenticated() {
		return SendResult{Notice: NoticeLoginToChat}, ErrNotAuthenticated
	}
	if c.quota.Exhausted() {
		return SendResult{}, ErrNoQuota
	}

	// Enter Sending: admit one turn, commit the user message.
	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return SendResult{}, ErrSendInFlight
	}
	c.sending = true
	target := c.convs.ActiveID()
	c.transcript.Append(model.NewUserMessage(prompt))
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
	}()

	result, err := c.client.Chat(ctx, prompt, target)
	if err != nil {
		return c.settleFailure(target, err), nil
	}
	return c.settleSuccess(ctx, target, result), nil
}

// settleFailure applies a failed turn. Authentication rejections force a
// logout but leave the transcript: the optimistic user message was real
// input. Other failures surface in-line as a synthetic assistant entry,
// subject to the same staleness check as a reply: a failure that settles
// after the user switched conversations must not land in the new
// transcript. Quota pinning applies either way.
func (c *Controller) settleFailure(target int64, err error) SendResult {
	if api.IsUnauthorized(err) {
		return SendResult{
			Notice:         c.expireSession(),
			SessionExpired: true,
		}
	}

	text := api.UserMessage(err, fallbackSendFailed)

	c.mu.Lock()
	stale := c.convs.ActiveID() != target
	if !stale {
		c.transcript.Append(model.NewErrorMessage(text))
	}
	c.mu.Unlock()

	out := SendResult{Stale: stale}
	if api.IsQuotaExhausted(err) {
		// Trust the backend over the cached counter.
		c.quota.MarkExhausted()
		out.Notice = text
		out.QuotaNotice = true
	}
	return out
}

// settleSuccess applies a successful turn. The reply is appended only if
// the conversation it targeted is still active; quota refresh happens
// either way.
func (c *Controller) settleSuccess(ctx context.Context, target int64, result *api.ChatResult) SendResult {
	var out SendResult

	c.mu.Lock()
	stale := c.convs.ActiveID() != target
	if !stale {
		reply := model.NewAssistantMessage(result.Response)
		reply.ServerID = result.MessageID
		c.transcript.Append(reply)
	}
	c.mu.Unlock()

	if stale {
		out.Stale = true
	} else if target == conversation.NoActive && result.ConversationID != 0 {
		// The backend just created this conversation; adopt its id and pick
		// up the new list entry.
		c.convs.AdoptActive(result.ConversationID)
		if err := c.convs.RefreshList(ctx); err != nil {
			log.Printf("chat: conversation list refresh failed: %v", err)
		}
		out.ConversationCreated = true
	}

	if err := c.quota.Refresh(ctx); err != nil && api.IsUnauthorized(err) {
		out.Notice = c.expireSession()
		out.SessionExpired = true
	}
	return out
}

// =============================================================================
// CONVERSATION OPERATIONS
// =============================================================================

// RefreshAll reloads the conversation list and quota after a login or at
// startup. List failure is returned; quota failure is best-effort.
func (c *Controller) RefreshAll(ctx context.Context) error {
	if err := c.convs.RefreshList(ctx); err != nil {
		if api.IsUnauthorized(err) {
			c.expireSession()
		}
		return err
	}
	if err := c.quota.Refresh(ctx); err != nil && api.IsUnauthorized(err) {
		c.expireSession()
	}
	return nil
}

// SelectConversation makes a conversation active and replaces the
// transcript with its history. On failure the previous transcript and
// active id are untouched.
func (c *Controller) SelectConversation(ctx context.Context, id int64) (string, error) {
	messages, err := c.convs.Select(ctx, id)
	if err != nil {
		if api.IsUnauthorized(err) {
			return c.expireSession(), err
		}
		return NoticeLoadFailed, err
	}

	c.mu.Lock()
	c.transcript.Replace(messages)
	c.mu.Unlock()
	return "", nil
}

// NewConversation switches to a new, unsaved conversation and clears the
// transcript. No backend call.
func (c *Controller) NewConversation() {
	c.convs.StartNew()
	c.mu.Lock()
	c.transcript.Clear()
	c.mu.Unlock()
}

// CreateConversation creates a named empty conversation and makes it
// active with an empty transcript.
func (c *Controller) CreateConversation(ctx context.Context, title string) (string, error) {
	_, err := c.convs.Create(ctx, title)
	if err != nil {
		if api.IsUnauthorized(err) {
			return c.expireSession(), err
		}
		return api.UserMessage(err, fallbackTitleFailed), err
	}
	c.mu.Lock()
	c.transcript.Clear()
	c.mu.Unlock()
	return "", nil
}

// RenameConversation renames a conversation, committing the local title
// only after the backend confirms.
func (c *Controller) RenameConversation(ctx context.Context, id int64, title string) (string, error) {
	if err := c.convs.Rename(ctx, id, title); err != nil {
		if api.IsUnauthorized(err) {
			return c.expireSession(), err
		}
		return NoticeRenameFailed, err
	}
	return NoticeRenamed, nil
}

// DeleteConversation removes a conversation. Deleting the active one
// behaves like NewConversation.
func (c *Controller) DeleteConversation(ctx context.Context, id int64) (string, error) {
	wasActive, err := c.convs.Remove(ctx, id)
	if err != nil {
		if api.IsUnauthorized(err) {
			return c.expireSession(), err
		}
		return NoticeDeleteFailed, err
	}
	if wasActive {
		c.mu.Lock()
		c.transcript.Clear()
		c.mu.Unlock()
	}
	return NoticeDeleted, nil
}

// =============================================================================
// SESSION TRANSITIONS
// =============================================================================

// Login authenticates and, on success, loads the conversation list and
// quota.
func (c *Controller) Login(ctx context.Context, username, password string) (string, error) {
	notice, err := c.session.Login(ctx, username, password)
	if err != nil {
		return "", err
	}
	if err := c.RefreshAll(ctx); err != nil {
		log.Printf("chat: initial refresh after login failed: %v", err)
	}
	return notice, nil
}

// Logout clears every store: session, conversations, transcript, quota.
// Purely local; never fails.
func (c *Controller) Logout() string {
	notice := c.session.Logout()
	c.clearClientState()
	c.mu.Lock()
	c.transcript.Clear()
	c.mu.Unlock()
	return notice
}

// expireSession runs the forced-logout path for a rejected token. Unlike
// Logout it leaves the transcript visible. Returns the session-expired
// notice once; later calls return empty.
func (c *Controller) expireSession() string {
	notice, first := c.session.HandleUnauthorized()
	if !first {
		return ""
	}
	c.clearClientState()
	return notice
}

// clearClientState empties the stores that must not survive a logout.
func (c *Controller) clearClientState() {
	c.convs.Clear()
	c.quota.Clear()
}
