// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/modpack-tui/internal/chat"
	"github.com/jeranaias/modpack-tui/internal/commands"
	"github.com/jeranaias/modpack-tui/internal/model"
	"github.com/jeranaias/modpack-tui/internal/ui/components"
	"github.com/jeranaias/modpack-tui/internal/ui/styles"
)

// Input placeholders for the three input states.
const (
	placeholderReady     = "Message ModpackGPT..."
	placeholderLoggedOut = "Login to start chatting..."
	placeholderNoQuota   = "Query limit reached"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	ctrl  *chat.Controller
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	sidebar   components.Sidebar
	statusBar components.StatusBar
	thinking  components.ThinkingIndicator
	welcome   components.Welcome
	toast     components.Toast

	// Slash commands
	parser *commands.Parser

	// Markdown rendering
	markdown     *markdownRenderer
	renderFancy  bool
	sidebarWidth int

	sending bool
}

// Options configures the chat screen.
type Options struct {
	// Markdown enables glamour rendering of assistant replies.
	Markdown bool

	// SidebarWidth is the conversation list width in columns.
	SidebarWidth int
}

// New creates the chat screen over a controller.
func New(ctrl *chat.Controller, theme *styles.Theme, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholderReady
	ti.CharLimit = 4096
	ti.PromptStyle = theme.InputPrompt
	ti.TextStyle = theme.InputText
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.Focus()

	if opts.SidebarWidth <= 0 {
		opts.SidebarWidth = 28
	}

	m := Model{
		ctrl:         ctrl,
		theme:        theme,
		viewport:     viewport.New(80, 20),
		input:        ti,
		sidebar:      components.NewSidebar(theme),
		statusBar:    components.NewStatusBar(theme),
		thinking:     components.NewThinkingIndicator(theme),
		welcome:      components.NewWelcome(theme),
		parser:       commands.NewParser(commands.NewRegistry()),
		renderFancy:  opts.Markdown,
		sidebarWidth: opts.SidebarWidth,
	}
	m.markdown = newMarkdownRenderer(theme.IsDark, opts.Markdown, 72)
	m.syncFromController()
	return m
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize lays the screen out for a new terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	contentWidth := width - m.sidebarWidth
	if contentWidth < 40 {
		contentWidth = width
	}

	// header + toast/thinking line + input + status bar
	viewportHeight := height - 5
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	m.viewport.Width = contentWidth
	m.viewport.Height = viewportHeight
	m.sidebar.SetSize(m.sidebarWidth, viewportHeight)
	m.statusBar.SetWidth(width)
	m.welcome.SetSize(contentWidth, viewportHeight)
	m.input.Width = contentWidth - 4
	m.markdown = newMarkdownRenderer(m.theme.IsDark, m.renderFancy, contentWidth-12)
	m.refreshViewport()
}

// syncFromController pulls shared state into the view components. Called
// after every settled operation.
func (m *Model) syncFromController() {
	m.sidebar.SetItems(m.ctrl.Conversations().Summaries())
	m.sidebar.SetActiveID(m.ctrl.Conversations().ActiveID())

	sess := m.ctrl.Session()
	m.statusBar.SetUsername(sess.Username())
	m.statusBar.SetSending(m.sending)
	m.welcome.SetUsername(sess.Username())

	remaining, known := m.ctrl.Quota().Remaining()
	m.statusBar.SetQuota(remaining, known)

	m.syncInput()
	m.refreshViewport()
}

// syncInput sets the placeholder and enablement for the current state.
func (m *Model) syncInput() {
	switch {
	case !m.ctrl.Session().IsAuthenticated():
		m.input.Placeholder = placeholderLoggedOut
	case m.ctrl.Quota().Exhausted():
		m.input.Placeholder = placeholderNoQuota
	default:
		m.input.Placeholder = placeholderReady
	}
}

// refreshViewport rebuilds the transcript render.
func (m *Model) refreshViewport() {
	messages := m.ctrl.Messages()
	if len(messages) == 0 {
		m.viewport.SetContent(m.welcome.View())
		return
	}

	var blocks []string
	for _, msg := range messages {
		bubble := components.NewMessageBubble(msg, m.theme)
		bubble.SetWidth(m.viewport.Width)
		if !msg.IsError && msg.Role == model.RoleAssistant {
			bubble.Rendered = m.markdown.Render(msg.Content)
		}
		blocks = append(blocks, bubble.View())
	}

	m.viewport.SetContent(joinBlocks(blocks))
	m.viewport.GotoBottom()
}

func joinBlocks(blocks []string) string {
	out := ""
	for i, b := range blocks {
		if i > 0 {
			out += "\n\n"
		}
		out += b
	}
	return out
}

// showToast replaces the current toast and schedules its expiry redraw.
func (m *Model) showToast(toast components.Toast) tea.Cmd {
	m.toast = toast
	return toastTickCmd(toast.Duration)
}
