// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/modpack-tui/internal/model"
	"github.com/jeranaias/modpack-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one transcript entry as a styled bubble. User
// messages sit against the right edge, assistant replies against the left,
// error entries take the assistant position in rose.
type MessageBubble struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool

	// Rendered holds pre-rendered content (markdown output). When empty the
	// raw message content is word-wrapped instead.
	Rendered string

	theme *styles.Theme
}

// NewMessageBubble creates a bubble for a transcript entry.
func NewMessageBubble(msg model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the available rendering width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message.IsError {
		return b.render(b.theme.ErrorBubble, "ModpackGPT", lipgloss.Left)
	}
	switch b.Message.Role {
	case model.RoleUser:
		return b.render(b.theme.UserBubble, b.Message.Role.DisplayName(), lipgloss.Right)
	default:
		return b.render(b.theme.AssistantBubble, b.Message.Role.DisplayName(), lipgloss.Left)
	}
}

func (b *MessageBubble) render(bubbleStyle lipgloss.Style, author string, align lipgloss.Position) string {
	content := b.Rendered
	if content == "" {
		content = b.Message.Content
		if content == "" {
			content = "..."
		}
		maxContentWidth := b.Width - 12
		if maxContentWidth < 20 {
			maxContentWidth = 20
		}
		content = wordWrap(content, maxContentWidth)
	}

	contentWidth := minInt(maxLineWidth(content)+4, b.Width-8)
	bubble := bubbleStyle.Width(contentWidth).Render(content)

	header := b.theme.MessageAuthor.Render(author)
	if b.ShowTimestamp && !b.Message.Timestamp.IsZero() {
		header += " " + b.theme.MessageTime.Render(b.Message.Timestamp.Format("15:04"))
	}

	block := header + "\n" + bubble
	if b.Width > 0 {
		return lipgloss.NewStyle().Width(b.Width).Align(align).Render(block)
	}
	return block
}
