// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/modpack-tui/internal/model"
	"github.com/jeranaias/modpack-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme(true)
}

// ===== helpers =====

func TestWordWrap(t *testing.T) {
	wrapped := wordWrap("the quick brown fox jumps over the lazy dog", 15)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 15)
	}
	assert.Equal(t, "the quick brown fox jumps over the lazy dog",
		strings.ReplaceAll(wrapped, "\n", " "))
}

func TestWordWrapLongWord(t *testing.T) {
	wrapped := wordWrap("supercalifragilisticexpialidocious", 10)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 10)
	}
}

func TestWordWrapPreservesNewlines(t *testing.T) {
	wrapped := wordWrap("line one\nline two", 40)
	assert.Equal(t, "line one\nline two", wrapped)
}

func TestMaxLineWidth(t *testing.T) {
	assert.Equal(t, 9, maxLineWidth("ab\nabcdefghi\ncd"))
}

// ===== message bubble =====

func TestMessageBubbleRoles(t *testing.T) {
	theme := testTheme()

	user := NewMessageBubble(model.NewUserMessage("how do I fix a crash?"), theme)
	user.SetWidth(60)
	assert.Contains(t, user.View(), "You")

	reply := NewMessageBubble(model.NewAssistantMessage("Check your logs."), theme)
	reply.SetWidth(60)
	assert.Contains(t, reply.View(), "ModpackGPT")
}

func TestMessageBubbleError(t *testing.T) {
	bubble := NewMessageBubble(model.NewErrorMessage("Failed to get response"), testTheme())
	bubble.SetWidth(60)
	view := bubble.View()
	assert.Contains(t, view, "Failed to get response")
	assert.Contains(t, view, "ModpackGPT")
}

func TestMessageBubblePreRendered(t *testing.T) {
	bubble := NewMessageBubble(model.NewAssistantMessage("raw"), testTheme())
	bubble.Rendered = "pretty markdown"
	assert.Contains(t, bubble.View(), "pretty markdown")
}

// ===== sidebar =====

func summaries(titles ...string) []model.ConversationSummary {
	items := make([]model.ConversationSummary, len(titles))
	for i, title := range titles {
		items[i] = model.ConversationSummary{ID: int64(i + 1), Title: title}
	}
	return items
}

func TestSidebarEmptyState(t *testing.T) {
	sidebar := NewSidebar(testTheme())
	assert.Contains(t, sidebar.View(), "No conversations yet")
}

func TestSidebarCursorMovement(t *testing.T) {
	sidebar := NewSidebar(testTheme())
	sidebar.SetItems(summaries("Crashes", "Shaders", "Quests"))
	sidebar.Focus()

	sidebar, _ = sidebar.Update(tea.KeyMsg{Type: tea.KeyDown})
	sidebar, _ = sidebar.Update(tea.KeyMsg{Type: tea.KeyDown})

	selected, ok := sidebar.Selected()
	require.True(t, ok)
	assert.Equal(t, "Quests", selected.Title)

	// Clamped at the bottom.
	sidebar, _ = sidebar.Update(tea.KeyMsg{Type: tea.KeyDown})
	selected, _ = sidebar.Selected()
	assert.Equal(t, "Quests", selected.Title)
}

func TestSidebarKeepsCursorAcrossRefresh(t *testing.T) {
	sidebar := NewSidebar(testTheme())
	sidebar.SetItems(summaries("Crashes", "Shaders", "Quests"))
	sidebar.Focus()
	sidebar, _ = sidebar.Update(tea.KeyMsg{Type: tea.KeyDown})

	// New list with an extra entry at the front; cursor follows the id.
	sidebar.SetItems([]model.ConversationSummary{
		{ID: 9, Title: "New"},
		{ID: 1, Title: "Crashes"},
		{ID: 2, Title: "Shaders"},
	})
	selected, ok := sidebar.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(2), selected.ID)
}

func TestSidebarIgnoresKeysWhenBlurred(t *testing.T) {
	sidebar := NewSidebar(testTheme())
	sidebar.SetItems(summaries("Crashes", "Shaders"))

	sidebar, _ = sidebar.Update(tea.KeyMsg{Type: tea.KeyDown})
	selected, ok := sidebar.Selected()
	require.True(t, ok)
	assert.Equal(t, "Crashes", selected.Title)
}

// ===== status bar =====

func TestStatusBarLoggedOut(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetWidth(100)
	assert.Contains(t, bar.View(), "not logged in")
}

func TestStatusBarQuota(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetWidth(100)
	bar.SetUsername("steve")
	bar.SetQuota(7, true)
	view := bar.View()
	assert.Contains(t, view, "steve")
	assert.Contains(t, view, "7 queries remaining")
}

func TestStatusBarHidesUnknownQuota(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetWidth(100)
	bar.SetUsername("steve")
	bar.SetQuota(0, false)
	assert.NotContains(t, bar.View(), "queries remaining")
}

// ===== toast =====

func TestToastExpiry(t *testing.T) {
	toast := NewToast("Conversation deleted")
	assert.False(t, toast.IsExpired())
	assert.Contains(t, toast.Render(testTheme()), "Conversation deleted")

	toast.CreatedAt = time.Now().Add(-time.Minute)
	assert.True(t, toast.IsExpired())
	assert.Empty(t, toast.Render(testTheme()))
}

func TestZeroToastRendersNothing(t *testing.T) {
	var toast Toast
	assert.True(t, toast.IsZero())
	assert.Empty(t, toast.Render(testTheme()))
}

// ===== welcome =====

func TestWelcomeLoggedOut(t *testing.T) {
	welcome := NewWelcome(testTheme())
	welcome.SetSize(80, 20)
	assert.Contains(t, welcome.View(), "Login to start chatting")
}

func TestWelcomeLoggedIn(t *testing.T) {
	welcome := NewWelcome(testTheme())
	welcome.SetSize(80, 20)
	welcome.SetUsername("steve")
	view := welcome.View()
	assert.Contains(t, view, "ModpackGPT")
	assert.NotContains(t, view, "Login to start chatting")
}
