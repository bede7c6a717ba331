// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system shared by the TUI
// chat input and the plain-mode REPL.
package commands

import (
	"sort"
	"strings"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Kind identifies what a parsed command asks the client to do. The view
// layers translate kinds into store operations, keeping this package free
// of network and UI dependencies.
type Kind int

const (
	KindHelp Kind = iota
	KindNew
	KindList
	KindOpen
	KindRename
	KindDelete
	KindQuota
	KindLogout
	KindQuit
)

// Command describes one slash command.
type Command struct {
	// Name is the primary command name (e.g., "/help").
	Name string

	// Aliases are alternative names (e.g., "/h", "/?").
	Aliases []string

	// Description is shown in help output.
	Description string

	// Usage shows argument syntax (e.g., "/rename <title>").
	Usage string

	// Kind is the action the command maps to.
	Kind Kind

	// WantsArg indicates the command takes a free-form argument.
	WantsArg bool
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
	order    []string
}

// NewRegistry creates a registry with the built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	r.order = append(r.order, cmd.Name)
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands in registration order.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		cmds = append(cmds, r.commands[name])
	}
	return cmds
}

// Complete returns command names matching a prefix, for input completion.
func (r *Registry) Complete(prefix string) []string {
	var matches []string
	for name := range r.commands {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	for alias := range r.aliases {
		if strings.HasPrefix(alias, prefix) {
			matches = append(matches, alias)
		}
	}
	sort.Strings(matches)
	return matches
}

// HelpText renders the command list for /help.
func (r *Registry) HelpText() string {
	var sb strings.Builder
	sb.WriteString("Available commands:\n")
	for _, cmd := range r.All() {
		usage := cmd.Usage
		if usage == "" {
			usage = cmd.Name
		}
		sb.WriteString("  " + padCommand(usage) + cmd.Description + "\n")
	}
	return sb.String()
}

func padCommand(s string) string {
	const width = 20
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}

// registerBuiltins installs the built-in command set.
func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show available commands",
		Kind:        KindHelp,
	})
	r.Register(&Command{
		Name:        "/new",
		Aliases:     []string{"/n"},
		Description: "Start a new conversation (optionally with a title)",
		Usage:       "/new [title]",
		Kind:        KindNew,
		WantsArg:    true,
	})
	r.Register(&Command{
		Name:        "/list",
		Aliases:     []string{"/ls"},
		Description: "List saved conversations",
		Kind:        KindList,
	})
	r.Register(&Command{
		Name:        "/open",
		Aliases:     []string{"/o"},
		Description: "Open a conversation by list number",
		Usage:       "/open <number>",
		Kind:        KindOpen,
		WantsArg:    true,
	})
	r.Register(&Command{
		Name:        "/rename",
		Description: "Rename the active conversation",
		Usage:       "/rename <title>",
		Kind:        KindRename,
		WantsArg:    true,
	})
	r.Register(&Command{
		Name:        "/delete",
		Description: "Delete the active conversation",
		Kind:        KindDelete,
	})
	r.Register(&Command{
		Name:        "/quota",
		Description: "Show remaining queries",
		Kind:        KindQuota,
	})
	r.Register(&Command{
		Name:        "/logout",
		Description: "Log out and clear stored credentials",
		Kind:        KindLogout,
	})
	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit modpack-tui",
		Kind:        KindQuit,
	})
}
