// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// wordWrap wraps text at word boundaries to fit within maxWidth columns.
// Words longer than maxWidth are hard-broken.
func wordWrap(text string, maxWidth int) string {
	if maxWidth < 1 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, maxWidth)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, maxWidth int) []string {
	if runewidth.StringWidth(line) <= maxWidth {
		return []string{line}
	}

	var wrapped []string
	var current string
	for _, word := range strings.Fields(line) {
		for runewidth.StringWidth(word) > maxWidth {
			if current != "" {
				wrapped = append(wrapped, current)
				current = ""
			}
			head := runewidth.Truncate(word, maxWidth, "")
			wrapped = append(wrapped, head)
			word = word[len(head):]
		}
		switch {
		case current == "":
			current = word
		case runewidth.StringWidth(current)+1+runewidth.StringWidth(word) <= maxWidth:
			current += " " + word
		default:
			wrapped = append(wrapped, current)
			current = word
		}
	}
	if current != "" {
		wrapped = append(wrapped, current)
	}
	if len(wrapped) == 0 {
		wrapped = []string{""}
	}
	return wrapped
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	max := 0
	for _, line := range strings.Split(text, "\n") {
		if w := runewidth.StringWidth(line); w > max {
			max = w
		}
	}
	return max
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
