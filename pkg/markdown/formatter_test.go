package markdown

import (
	"strings"
	"testing"
)

func TestReformatHeadings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "blank line inserted around heading",
			input: "intro text\n# Title\nbody",
			want:  "intro text\n\n# Title\n\nbody",
		},
		{
			name:  "horizontal rule before level-2 heading",
			input: "intro\n## Section\nbody",
			want:  "intro\n\n---\n\n## Section\n\nbody",
		},
		{
			name:  "existing rule not duplicated",
			input: "intro\n\n---\n\n## Section\n\nbody",
			want:  "intro\n\n---\n\n## Section\n\nbody",
		},
		{
			name:  "no rule before heading at document start",
			input: "## Section\nbody",
			want:  "## Section\n\nbody",
		},
		{
			name:  "level-3 heading gets no rule",
			input: "intro\n### Sub\nbody",
			want:  "intro\n\n### Sub\n\nbody",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reformat(tt.input)
			if got != tt.want {
				t.Errorf("Reformat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReformatTablesAndLists(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "blank lines around table block",
			input: "before\n| a | b |\n|---|---|\n| 1 | 2 |\nafter",
			want:  "before\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\nafter",
		},
		{
			name:  "blank line before first list item only",
			input: "text\n- one\n- two",
			want:  "text\n\n- one\n- two",
		},
		{
			name:  "numbered list",
			input: "text\n1. one\n2. two",
			want:  "text\n\n1. one\n2. two",
		},
		{
			name:  "well formed input unchanged",
			input: "text\n\n- one\n- two",
			want:  "text\n\n- one\n- two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reformat(tt.input)
			if got != tt.want {
				t.Errorf("Reformat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReformatIdempotent(t *testing.T) {
	inputs := []string{
		"intro\n## Section\nbody\n- a\n- b",
		"# Title\ntext\n| x | y |\n| 1 | 2 |\ntail",
		"plain paragraph with no markup at all",
		"## A\n### B\ntext\n## C",
		"",
		"| lone | table |",
		strings.Repeat("- item\ntext\n", 3),
	}

	for _, in := range inputs {
		once := Reformat(in)
		twice := Reformat(once)
		if once != twice {
			t.Errorf("Reformat not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
		}
	}
}
