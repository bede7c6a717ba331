// modpack-tui - A terminal client for the ModpackGPT support assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/modpack-tui/internal/api"
	"github.com/jeranaias/modpack-tui/internal/chat"
	"github.com/jeranaias/modpack-tui/internal/cli"
	"github.com/jeranaias/modpack-tui/internal/config"
	"github.com/jeranaias/modpack-tui/internal/conversation"
	"github.com/jeranaias/modpack-tui/internal/creds"
	"github.com/jeranaias/modpack-tui/internal/quota"
	"github.com/jeranaias/modpack-tui/internal/session"
	"github.com/jeranaias/modpack-tui/internal/ui/auth"
	chatview "github.com/jeranaias/modpack-tui/internal/ui/chat"
	"github.com/jeranaias/modpack-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	args, err := cli.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n%s", err, cli.Usage())
		os.Exit(2)
	}
	if args.ShowHelp {
		fmt.Print(cli.Usage())
		return
	}
	if args.ShowVersion {
		fmt.Printf("modpack-tui %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)

	closeLog := setupLogging(cfg)
	defer closeLog()

	ctrl, err := buildController(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if args.Plain || !cli.IsStdoutTTY() || !cli.IsStdinTTY() {
		repl := cli.NewREPL(ctrl, cfg)
		if err := repl.Run(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unrouted log output would corrupt the alt-screen display.
	if cfg.LogFile == "" {
		log.SetOutput(io.Discard)
	}
	if err := runTUI(ctrl, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the config file and applies CLI overrides on top of the
// environment overrides the loader already handles.
func loadConfig(args cli.Args) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if args.ConfigPath != "" {
		cfg, err = config.LoadFrom(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if args.ServerURL != "" {
		cfg.Server.BaseURL = args.ServerURL
	}
	if args.Theme != "" {
		cfg.UI.Theme = args.Theme
	}
	if args.Verbose {
		cfg.Server.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging routes the standard logger to the configured file. Without a
// log file, log output goes to stderr in plain mode and is discarded in TUI
// mode where it would corrupt the display.
func setupLogging(cfg *config.Config) func() {
	if cfg.LogFile == "" {
		return func() {}
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return func() {}
	}
	log.SetOutput(f)
	return func() { f.Close() }
}

// buildController wires the API client and the client-side stores.
func buildController(cfg *config.Config) (*chat.Controller, error) {
	client := api.NewClient(cfg.Server.BaseURL).
		WithTimeout(cfg.Timeout()).
		WithVerbose(cfg.Server.Verbose)

	store, err := creds.NewStore()
	if err != nil {
		return nil, fmt.Errorf("credential store: %w", err)
	}

	sess := session.NewController(store, client)
	convs := conversation.NewStore(client)
	tracker := quota.NewTracker(client)
	return chat.NewController(client, sess, convs, tracker), nil
}

// =============================================================================
// APP MODEL
// =============================================================================

// screen selects the visible top-level view.
type screen int

const (
	screenAuth screen = iota
	screenChat
)

// appModel switches between the auth screen and the chat screen.
type appModel struct {
	ctrl  *chat.Controller
	theme *styles.Theme

	screen screen
	auth   auth.Model
	chat   chatview.Model

	width  int
	height int
}

func newAppModel(ctrl *chat.Controller, cfg *config.Config) appModel {
	theme := styles.NewTheme(cfg.UI.Theme != "light")

	m := appModel{
		ctrl:  ctrl,
		theme: theme,
		auth:  auth.New(ctrl.Session(), theme),
		chat: chatview.New(ctrl, theme, chatview.Options{
			Markdown:     cfg.UI.Markdown,
			SidebarWidth: cfg.UI.SidebarWidth,
		}),
	}
	if ctrl.Session().IsAuthenticated() {
		m.screen = screenChat
	}
	return m
}

// Init starts the active screen and, when already authenticated from a
// persisted token, loads the conversation list and quota.
func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.auth.Init(), m.chat.Init()}
	if m.screen == screenChat {
		cmds = append(cmds, refreshOnStartCmd(m.ctrl))
	}
	return tea.Batch(cmds...)
}

// refreshOnStartCmd loads conversations and quota for a restored session.
func refreshOnStartCmd(ctrl *chat.Controller) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.RefreshAll(context.Background())
		msg := chatview.RefreshDoneMsg{Err: err}
		if err != nil && !ctrl.Session().IsAuthenticated() {
			msg.SessionExpired = true
			msg.Notice = session.NoticeSessionExpired
		}
		return msg
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.auth.SetSize(msg.Width, msg.Height)
		m.chat.SetSize(msg.Width, msg.Height)
		return m, nil

	case auth.LoginDoneMsg:
		var cmd tea.Cmd
		m.auth, cmd = m.auth.Update(msg)
		if msg.Err == nil {
			m.screen = screenChat
			return m, tea.Batch(cmd, refreshOnStartCmd(m.ctrl))
		}
		return m, cmd

	case chatview.SessionExpiredMsg:
		m.screen = screenAuth
		if msg.Notice != "" {
			m.auth.SetNotice(msg.Notice)
		} else {
			m.auth.SetNotice(session.NoticeSessionExpired)
		}
		return m, nil

	case chatview.LoggedOutMsg:
		m.screen = screenAuth
		m.auth.SetNotice(msg.Notice)
		return m, nil
	}

	var cmd tea.Cmd
	if m.screen == screenAuth {
		m.auth, cmd = m.auth.Update(msg)
	} else {
		m.chat, cmd = m.chat.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	if m.screen == screenAuth {
		return m.auth.View()
	}
	return m.chat.View()
}

// runTUI runs the full-screen interface, reloading the config file in the
// background while it runs.
func runTUI(ctrl *chat.Controller, cfg *config.Config) error {
	if path, err := config.ConfigPath(); err == nil {
		stop, err := config.Watch(path, func(updated *config.Config) {
			config.SetGlobal(updated)
			log.Printf("config reloaded")
		})
		if err == nil {
			defer stop()
		} else {
			log.Printf("config watch unavailable: %v", err)
		}
	}

	program := tea.NewProgram(newAppModel(ctrl, cfg), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
