// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package thinking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Segments
	}{
		{
			name:    "plain text",
			content: "plain text",
			want:    Segments{Main: "plain text"},
		},
		{
			name:    "no tag keeps surrounding whitespace",
			content: "  spaced answer \n",
			want:    Segments{Main: "  spaced answer \n"},
		},
		{
			name:    "think block before answer",
			content: "<think>reasoning here</think>answer",
			want:    Segments{HasThinking: true, Thinking: "reasoning here", Main: "answer"},
		},
		{
			name:    "thinking only falls back to placeholder",
			content: "<thinking>only reasoning</thinking>",
			want:    Segments{HasThinking: true, Thinking: "only reasoning", Main: "..."},
		},
		{
			name:    "case insensitive tags",
			content: "<THINK>Loud</Think>\n\nQuiet answer",
			want:    Segments{HasThinking: true, Thinking: "Loud", Main: "Quiet answer"},
		},
		{
			name:    "unterminated tag runs to end",
			content: "Intro <think>still pondering",
			want:    Segments{HasThinking: true, Thinking: "still pondering", Main: "Intro"},
		},
		{
			name:    "multiline interior is trimmed",
			content: "<think>\n  step one\n  step two\n</think>\nThe answer is 4.",
			want:    Segments{HasThinking: true, Thinking: "step one\n  step two", Main: "The answer is 4."},
		},
		{
			name:    "block in the middle",
			content: "Before <think>mid</think> after",
			want:    Segments{HasThinking: true, Thinking: "mid", Main: "Before  after"},
		},
		{
			name:    "empty block",
			content: "<think></think>Answer",
			want:    Segments{HasThinking: true, Main: "Answer"},
		},
		{
			name:    "later blocks are stripped too",
			content: "<think>a</think>one<thinking>b</thinking>two",
			want:    Segments{HasThinking: true, Thinking: "a\n\nb", Main: "onetwo"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Parse(tc.content))
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	inputs := []string{
		"plain text",
		"<think>r</think>answer",
		"<thinking>only</thinking>",
		"x <think>open ended",
		"<think>a</think>b<think>c</think>d",
		"<thi<think>x</think>nk>y",
		"<thin<think>a</think>king>b</thinking>c",
	}
	for _, in := range inputs {
		first := Parse(in)
		second := Parse(first.Main)
		assert.False(t, second.HasThinking, "input %q", in)
		assert.Equal(t, first.Main, second.Main, "input %q", in)
	}
}

func TestParse_FragmentsJoinedByRemoval(t *testing.T) {
	got := Parse("<thi<think>x</think>nk>y")
	assert.True(t, got.HasThinking)
	assert.Equal(t, "x\n\ny", got.Thinking)
	assert.Equal(t, Placeholder, got.Main)
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "answer", Strip("<think>x</think> answer"))
	assert.Equal(t, "as is ", Strip("as is "))
}
