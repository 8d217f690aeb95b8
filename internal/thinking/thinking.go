// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package thinking

import (
	"regexp"
	"strings"
)

// Placeholder replaces the visible answer when the reply held nothing but a
// reasoning segment.
const Placeholder = "..."

// thinkPattern matches one <think> or <thinking> block. A missing closing
// tag extends the block to the end of the input.
var thinkPattern = regexp.MustCompile(`(?is)<think(?:ing)?>(.*?)(?:</think(?:ing)?>|$)`)

// Segments is the parsed form of an assistant reply.
type Segments struct {
	HasThinking bool
	// Thinking is the trimmed interior of the reasoning blocks. Empty when
	// HasThinking is false.
	Thinking string
	// Main is the visible answer. Never empty when HasThinking is true.
	Main string
}

// Parse separates reasoning blocks from the visible answer of content.
//
// When no block is present Main is content unchanged, untrimmed. Every
// block is removed from Main and the non-empty interiors are joined into
// Thinking. Removal repeats until no marker is left, so fragments that meet
// after a removal cannot form a new block.
func Parse(content string) Segments {
	if !thinkPattern.MatchString(content) {
		return Segments{Main: content}
	}

	var blocks []string
	visible := content
	for {
		next, found := removeBlocks(visible, &blocks)
		if !found {
			break
		}
		visible = next
	}

	visible = strings.TrimSpace(visible)
	if visible == "" {
		visible = Placeholder
	}

	return Segments{
		HasThinking: true,
		Thinking:    strings.Join(blocks, "\n\n"),
		Main:        visible,
	}
}

// removeBlocks drops every block matched in s, appending non-empty
// interiors to blocks. found reports whether anything matched.
func removeBlocks(s string, blocks *[]string) (rest string, found bool) {
	all := thinkPattern.FindAllStringSubmatchIndex(s, -1)
	if all == nil {
		return s, false
	}

	var main strings.Builder
	last := 0
	for _, loc := range all {
		main.WriteString(s[last:loc[0]])
		if inner := strings.TrimSpace(s[loc[2]:loc[3]]); inner != "" {
			*blocks = append(*blocks, inner)
		}
		last = loc[1]
	}
	main.WriteString(s[last:])
	return main.String(), true
}

// Strip returns only the visible answer of content.
func Strip(content string) string {
	return Parse(content).Main
}
