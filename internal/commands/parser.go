// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
)

// =============================================================================
// PARSE RESULT
// =============================================================================

// ParseResult contains the result of parsing user input.
type ParseResult struct {
	// IsCommand is true if the input starts with /.
	IsCommand bool

	// Command is the matched command, nil when the name is unknown.
	Command *Command

	// CommandName is the raw command name (e.g., "/rename").
	CommandName string

	// Arg is the free-form argument text after the command name.
	Arg string

	// RawInput is the original input string.
	RawInput string
}

// =============================================================================
// PARSER
// =============================================================================

// Parser recognizes slash commands in chat input.
type Parser struct {
	registry *Registry
}

// NewParser creates a parser over the given registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Registry returns the registry the parser matches against.
func (p *Parser) Registry() *Registry {
	return p.registry
}

// Parse inspects user input. Input not starting with / is plain chat text
// and comes back with IsCommand=false.
func (p *Parser) Parse(input string) ParseResult {
	input = strings.TrimSpace(input)
	result := ParseResult{RawInput: input}

	if !strings.HasPrefix(input, "/") {
		return result
	}
	result.IsCommand = true

	name, arg, _ := strings.Cut(input, " ")
	result.CommandName = name
	result.Arg = strings.TrimSpace(arg)
	result.Command = p.registry.Get(name)
	return result
}
