// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"

	"github.com/jeranaias/modpack-tui/internal/chat"
	"github.com/jeranaias/modpack-tui/internal/commands"
	"github.com/jeranaias/modpack-tui/internal/config"
	"github.com/jeranaias/modpack-tui/internal/conversation"
	"github.com/jeranaias/modpack-tui/internal/model"
	"github.com/jeranaias/modpack-tui/internal/session"
	"github.com/jeranaias/modpack-tui/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for the REPL.
type ChatCLI struct {
	line        *liner.State
	historyFile string
	persist     bool
}

// NewChatCLI creates a ChatCLI. History is persisted under the config
// directory when persist is true.
func NewChatCLI(persist bool) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
		persist:     persist,
	}
	if persist {
		cli.LoadHistory()
	}
	return cli
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if !c.persist {
		return
	}
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// REPL is the plain-mode chat loop.
type REPL struct {
	ctrl   *chat.Controller
	cfg    *config.Config
	input  *ChatCLI
	parser *commands.Parser

	markdown *glamour.TermRenderer
}

// NewREPL creates a plain-mode chat loop over a controller.
func NewREPL(ctrl *chat.Controller, cfg *config.Config) *REPL {
	r := &REPL{
		ctrl:   ctrl,
		cfg:    cfg,
		input:  NewChatCLI(cfg.History.Enabled),
		parser: commands.NewParser(commands.NewRegistry()),
	}

	if cfg.UI.Markdown && IsStdoutTTY() {
		style := "dark"
		if cfg.UI.Theme == "light" {
			style = "light"
		}
		if renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(100),
		); err == nil {
			r.markdown = renderer
		}
	}
	return r
}

// Run drives the REPL until the user quits. Blocking network calls run on
// the caller's goroutine; Ctrl+C aborts the current prompt.
func (r *REPL) Run(ctx context.Context) error {
	defer r.input.Close()

	r.printWelcome()

	if !r.ctrl.Session().IsAuthenticated() {
		if ok := r.loginLoop(ctx); !ok {
			return nil
		}
	}
	if err := r.ctrl.RefreshAll(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
	}
	r.printQuota()

	for {
		input, err := r.input.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C or EOF exits cleanly.
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println()
			}
			fmt.Println(infoStyle.Render("Goodbye!"))
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		parsed := r.parser.Parse(input)
		if parsed.IsCommand {
			if !r.runCommand(ctx, parsed) {
				fmt.Println(infoStyle.Render("Goodbye!"))
				return nil
			}
			continue
		}

		r.send(ctx, input)
	}
}

// =============================================================================
// LOGIN
// =============================================================================

// loginLoop prompts for credentials until a login succeeds or the user
// aborts. Returns false on abort.
func (r *REPL) loginLoop(ctx context.Context) bool {
	fmt.Println(infoStyle.Render("Please login to start chatting"))
	for {
		username, err := r.input.ReadInput(promptStyle.Render("username> "))
		if err != nil {
			return false
		}

		fmt.Print(promptStyle.Render("password> "))
		password, err := ReadPassword()
		fmt.Println()
		if err != nil {
			return false
		}

		notice, err := r.ctrl.Login(ctx, strings.TrimSpace(username), password)
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render(loginFailureLine(err)))
			continue
		}
		fmt.Println(commandStyle.Render(notice))
		return true
	}
}

func loginFailureLine(err error) string {
	if session.IsValidationError(err) {
		return err.Error()
	}
	return session.NoticeLoginFailed
}

// =============================================================================
// SEND TURN
// =============================================================================

func (r *REPL) send(ctx context.Context, prompt string) {
	result, err := r.ctrl.Send(ctx, prompt)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrNotAuthenticated):
			fmt.Println(warningStyle.Render(result.Notice))
		case errors.Is(err, chat.ErrNoQuota):
			fmt.Println(warningStyle.Render("Query limit reached"))
		default:
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		}
		return
	}

	if result.SessionExpired {
		if result.Notice != "" {
			fmt.Println(warningStyle.Render(result.Notice))
		}
		r.loginLoop(ctx)
		return
	}

	r.printReply()
	if result.QuotaNotice {
		fmt.Println(warningStyle.Render(result.Notice))
	} else if result.Notice != "" {
		fmt.Println(infoStyle.Render(result.Notice))
	}
	if r.ctrl.Quota().Low() {
		r.printQuota()
	}
}

// printReply prints the latest transcript entry when it is an assistant
// reply or an inline error.
func (r *REPL) printReply() {
	messages := r.ctrl.Messages()
	if len(messages) == 0 {
		return
	}
	last := messages[len(messages)-1]
	if last.Role != model.RoleAssistant {
		return
	}

	fmt.Println()
	if last.IsError {
		fmt.Println(errorStyle.Render(last.Content))
	} else {
		fmt.Println(r.renderMarkdown(last.Content))
	}
	fmt.Println()
}

func (r *REPL) renderMarkdown(content string) string {
	if r.markdown == nil {
		return content
	}
	out, err := r.markdown.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// runCommand executes a slash command. Returns false when the REPL should
// exit.
func (r *REPL) runCommand(ctx context.Context, parsed commands.ParseResult) bool {
	if parsed.Command == nil {
		fmt.Fprintf(os.Stderr, "%s unknown command: %s (type /help for commands)\n",
			errorStyle.Render("[Error]"), parsed.CommandName)
		return true
	}

	switch parsed.Command.Kind {
	case commands.KindHelp:
		fmt.Print(infoStyle.Render(r.parser.Registry().HelpText()))

	case commands.KindNew:
		if parsed.Arg != "" {
			if notice, err := r.ctrl.CreateConversation(ctx, parsed.Arg); err != nil {
				r.reportFailure(ctx, notice, err)
			} else {
				fmt.Println(commandStyle.Render("Started: " + parsed.Arg))
			}
		} else {
			r.ctrl.NewConversation()
			fmt.Println(commandStyle.Render("Started a new conversation"))
		}

	case commands.KindList:
		r.printConversations()

	case commands.KindOpen:
		r.openConversation(ctx, parsed)

	case commands.KindRename:
		r.renameActive(ctx, parsed)

	case commands.KindDelete:
		r.deleteActive(ctx)

	case commands.KindQuota:
		r.printQuota()

	case commands.KindLogout:
		fmt.Println(commandStyle.Render(r.ctrl.Logout()))

	case commands.KindQuit:
		return false
	}
	return true
}

func (r *REPL) printConversations() {
	items := r.ctrl.Conversations().Summaries()
	if len(items) == 0 {
		fmt.Println(infoStyle.Render("No conversations yet"))
		return
	}
	activeID := r.ctrl.Conversations().ActiveID()
	for i, item := range items {
		marker := "  "
		if item.ID == activeID {
			marker = "* "
		}
		fmt.Printf("%s%s. %s\n", marker, util.IntToString(i+1), item.DisplayTitle())
	}
}

func (r *REPL) openConversation(ctx context.Context, parsed commands.ParseResult) {
	items := r.ctrl.Conversations().Summaries()
	n := util.ParseInt64(parsed.Arg)
	if n < 1 || n > int64(len(items)) {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Usage: "+parsed.Command.Usage))
		return
	}

	target := items[n-1]
	if notice, err := r.ctrl.SelectConversation(ctx, target.ID); err != nil {
		r.reportFailure(ctx, notice, err)
		return
	}

	fmt.Println(commandStyle.Render("Opened: " + target.DisplayTitle()))
	for _, msg := range r.ctrl.Messages() {
		fmt.Printf("%s: %s\n", promptStyle.Render(msg.Role.DisplayName()), msg.Preview(200))
	}
}

func (r *REPL) renameActive(ctx context.Context, parsed commands.ParseResult) {
	id := r.ctrl.Conversations().ActiveID()
	if id == conversation.NoActive {
		fmt.Fprintln(os.Stderr, errorStyle.Render("No active conversation to rename"))
		return
	}
	if parsed.Arg == "" {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Usage: "+parsed.Command.Usage))
		return
	}
	notice, err := r.ctrl.RenameConversation(ctx, id, parsed.Arg)
	if err != nil {
		r.reportFailure(ctx, notice, err)
		return
	}
	fmt.Println(commandStyle.Render(notice))
}

func (r *REPL) deleteActive(ctx context.Context) {
	id := r.ctrl.Conversations().ActiveID()
	if id == conversation.NoActive {
		fmt.Fprintln(os.Stderr, errorStyle.Render("No active conversation to delete"))
		return
	}
	notice, err := r.ctrl.DeleteConversation(ctx, id)
	if err != nil {
		r.reportFailure(ctx, notice, err)
		return
	}
	fmt.Println(commandStyle.Render(notice))
}

// reportFailure prints an operation failure and, when the session expired,
// offers to log back in.
func (r *REPL) reportFailure(ctx context.Context, notice string, err error) {
	if notice != "" {
		fmt.Fprintln(os.Stderr, errorStyle.Render(notice))
	} else {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
	}
	if !r.ctrl.Session().IsAuthenticated() {
		r.loginLoop(ctx)
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

func (r *REPL) printWelcome() {
	fmt.Println()
	fmt.Println(welcomeStyle.Render("ModpackGPT"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 30)))
	fmt.Println(infoStyle.Render("Your BetterMC modpack assistant"))
	fmt.Println(infoStyle.Render("Type your message and press Enter. Commands: /help, /quit"))
	fmt.Println()
}

func (r *REPL) printQuota() {
	if _, known := r.ctrl.Quota().Remaining(); !known {
		return
	}
	line := r.ctrl.Quota().StatusLine()
	if r.ctrl.Quota().Low() {
		fmt.Println(warningStyle.Render(line))
	} else {
		fmt.Println(infoStyle.Render(line))
	}
}
