// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"
)

// =============================================================================
// ARGUMENT PARSING
// =============================================================================

// Args holds the parsed command-line options.
type Args struct {
	// Plain forces the liner REPL instead of the full-screen TUI.
	Plain bool

	// ConfigPath overrides the default config file location.
	ConfigPath string

	// ServerURL overrides the configured backend URL.
	ServerURL string

	// Theme overrides the configured theme (dark or light).
	Theme string

	// Verbose enables request logging.
	Verbose bool

	ShowHelp    bool
	ShowVersion bool
}

// Parse parses command-line arguments. It handles an optional leading
// command plus long flags with either space-separated or equals-sign
// values.
func Parse(raw []string) (Args, error) {
	var args Args

	i := 0
	for i < len(raw) {
		arg := raw[i]
		if !strings.HasPrefix(arg, "-") {
			switch arg {
			case "chat":
				args.Plain = true
			default:
				return args, fmt.Errorf("unknown command: %s", arg)
			}
			i++
			continue
		}
		name := strings.TrimLeft(arg, "-")
		value := ""
		hasValue := false
		if eq := strings.Index(name, "="); eq >= 0 {
			name, value = name[:eq], name[eq+1:]
			hasValue = true
		}

		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
				i++
				return raw[i], nil
			}
			return "", fmt.Errorf("flag --%s requires a value", name)
		}

		switch name {
		case "plain", "no-tui":
			args.Plain = true
		case "config", "c":
			v, err := takeValue()
			if err != nil {
				return args, err
			}
			args.ConfigPath = v
		case "server", "s":
			v, err := takeValue()
			if err != nil {
				return args, err
			}
			args.ServerURL = v
		case "theme":
			v, err := takeValue()
			if err != nil {
				return args, err
			}
			args.Theme = v
		case "verbose", "v":
			args.Verbose = true
		case "help", "h":
			args.ShowHelp = true
		case "version":
			args.ShowVersion = true
		default:
			return args, fmt.Errorf("unknown flag: %s", arg)
		}
		i++
	}
	return args, nil
}

// Usage returns the help text for the binary.
func Usage() string {
	return `modpack-tui - terminal client for ModpackGPT

Usage:
  modpack-tui [command] [flags]

Commands:
  chat             Run the plain-text REPL (same as --plain)

Flags:
  --plain          Use the plain-text REPL instead of the TUI
  --config PATH    Use an alternate config file
  --server URL     Override the backend server URL
  --theme NAME     Theme override (dark or light)
  -v, --verbose    Log every API request
  -h, --help       Show this help
  --version        Show version
`
}
