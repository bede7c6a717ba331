// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the login and registration screen for the TUI.
package auth

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/modpack-tui/internal/api"
	"github.com/jeranaias/modpack-tui/internal/session"
	"github.com/jeranaias/modpack-tui/internal/ui/styles"
)

// Mode selects which form is showing.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// Field indices for the two forms.
const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
	fieldConfirm
	fieldCount
)

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// LoginDoneMsg reports a finished login attempt. On success the app model
// switches to the chat screen.
type LoginDoneMsg struct {
	Notice string
	Err    error
}

// RegisterDoneMsg reports a finished registration attempt. Registration
// never signs the user in; the pending-approval notice is shown instead.
type RegisterDoneMsg struct {
	Notice string
	Err    error
}

// =============================================================================
// AUTH MODEL
// =============================================================================

// Model is the Bubble Tea model for the auth screen.
type Model struct {
	sess  *session.Controller
	theme *styles.Theme

	mode    Mode
	inputs  [fieldCount]textinput.Model
	focus   int
	busy    bool
	errLine string
	notice  string

	width  int
	height int
}

// New creates the auth screen.
func New(sess *session.Controller, theme *styles.Theme) Model {
	m := Model{sess: sess, theme: theme}

	for i := range m.inputs {
		ti := textinput.New()
		ti.CharLimit = 128
		ti.PromptStyle = theme.InputPrompt
		ti.TextStyle = theme.InputText
		ti.PlaceholderStyle = theme.InputPlaceholder
		m.inputs[i] = ti
	}
	m.inputs[fieldUsername].Placeholder = "username"
	m.inputs[fieldEmail].Placeholder = "email"
	m.inputs[fieldPassword].Placeholder = "password"
	m.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	m.inputs[fieldConfirm].Placeholder = "confirm password"
	m.inputs[fieldConfirm].EchoMode = textinput.EchoPassword

	m.inputs[fieldUsername].Focus()
	return m
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the layout dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetNotice shows a standalone notice above the form, e.g. the
// session-expired or logged-out message from the chat screen.
func (m *Model) SetNotice(notice string) {
	m.notice = notice
}

// Mode returns the showing form.
func (m Model) Mode() Mode { return m.mode }

// fields returns the input indices active in the current mode.
func (m Model) fields() []int {
	if m.mode == ModeRegister {
		return []int{fieldUsername, fieldEmail, fieldPassword, fieldConfirm}
	}
	return []int{fieldUsername, fieldPassword}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case LoginDoneMsg:
		m.busy = false
		if msg.Err != nil {
			m.errLine = msg.Notice
			return m, nil
		}
		m.reset()
		return m, nil

	case RegisterDoneMsg:
		m.busy = false
		if msg.Err != nil {
			m.errLine = msg.Notice
			return m, nil
		}
		// Show the pending-approval notice on the login form.
		m.mode = ModeLogin
		m.reset()
		m.notice = msg.Notice
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(key tea.KeyMsg) (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab", "down":
		m.cycleFocus(1)
		return m, nil

	case "shift+tab", "up":
		m.cycleFocus(-1)
		return m, nil

	case "ctrl+r":
		m.toggleMode()
		return m, nil

	case "enter":
		return m.submit()
	}

	fields := m.fields()
	idx := fields[m.focus]
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(key)
	return m, cmd
}

func (m *Model) cycleFocus(dir int) {
	fields := m.fields()
	m.inputs[fields[m.focus]].Blur()
	m.focus = (m.focus + dir + len(fields)) % len(fields)
	m.inputs[fields[m.focus]].Focus()
}

func (m *Model) toggleMode() {
	if m.mode == ModeLogin {
		m.mode = ModeRegister
	} else {
		m.mode = ModeLogin
	}
	m.reset()
}

func (m *Model) reset() {
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].Reset()
	}
	m.focus = 0
	m.errLine = ""
	m.notice = ""
	m.inputs[m.fields()[0]].Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	username := m.inputs[fieldUsername].Value()
	password := m.inputs[fieldPassword].Value()

	if m.mode == ModeRegister {
		email := m.inputs[fieldEmail].Value()
		confirm := m.inputs[fieldConfirm].Value()
		if err := session.ValidateRegistration(username, email, password, confirm); err != nil {
			m.errLine = err.Error()
			return m, nil
		}
		m.busy = true
		m.errLine = ""
		return m, registerCmd(m.sess, username, email, password, confirm)
	}

	m.busy = true
	m.errLine = ""
	return m, loginCmd(m.sess, username, password)
}

// =============================================================================
// ASYNC COMMANDS
// =============================================================================

func loginCmd(sess *session.Controller, username, password string) tea.Cmd {
	return func() tea.Msg {
		notice, err := sess.Login(context.Background(), username, password)
		if err != nil {
			notice = failureLine(err, session.NoticeLoginFailed)
		}
		return LoginDoneMsg{Notice: notice, Err: err}
	}
}

func registerCmd(sess *session.Controller, username, email, password, confirm string) tea.Cmd {
	return func() tea.Msg {
		notice, err := sess.Register(context.Background(), username, email, password, confirm)
		if err != nil {
			notice = failureLine(err, session.NoticeRegisterFailed)
		}
		return RegisterDoneMsg{Notice: notice, Err: err}
	}
}

// failureLine picks the user-facing text for a failed attempt: validation
// errors carry their own message, backend rejections use the API message or
// the fallback.
func failureLine(err error, fallback string) string {
	if session.IsValidationError(err) {
		return err.Error()
	}
	return api.UserMessage(err, fallback)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the auth screen.
func (m Model) View() string {
	tabs := m.renderTabs()

	var form string
	for i, idx := range m.fields() {
		label := m.theme.FormLabel
		if i == m.focus {
			label = m.theme.FormLabelFocus
		}
		form += label.Render(m.inputs[idx].Placeholder) + "\n"
		form += m.inputs[idx].View() + "\n\n"
	}

	var feedback string
	switch {
	case m.busy:
		feedback = m.theme.FormHint.Render("Signing in...")
	case m.errLine != "":
		feedback = m.theme.FormError.Render(m.errLine)
	case m.notice != "":
		feedback = m.theme.Notice.Render(m.notice)
	}

	hint := m.theme.FormHint.Render("enter submit · ctrl+r switch form · esc quit")

	box := m.theme.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.WelcomeTitle.Render("ModpackGPT"),
		"",
		tabs,
		"",
		form+feedback,
		"",
		hint,
	))

	width := m.width
	height := m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderTabs() string {
	login := m.theme.TabInactive.Render("Login")
	register := m.theme.TabInactive.Render("Register")
	if m.mode == ModeLogin {
		login = m.theme.TabActive.Render("Login")
	} else {
		register = m.theme.TabActive.Render("Register")
	}
	return login + register
}
