// Package markdown post-processes assistant replies so headings, tables and
// lists render cleanly. The pass is deterministic and idempotent: running it
// on its own output changes nothing.
package markdown

import (
	"regexp"
	"strings"
)

var (
	headingRe  = regexp.MustCompile(`^#{1,6}\s`)
	heading2Re = regexp.MustCompile(`^##\s`)
	listItemRe = regexp.MustCompile(`^\s*([-*+]\s|\d+\.\s)`)
	hrRe       = regexp.MustCompile(`^-{3,}\s*$`)
)

func isTableRow(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// Reformat normalizes spacing in a markdown document: blank lines around
// headings and table blocks, a horizontal rule before every level-2 heading,
// and a blank line before the first item of each list block.
func Reformat(input string) string {
	lines := strings.Split(input, "\n")

	var out []string

	lastNonBlank := func() string {
		for i := len(out) - 1; i >= 0; i-- {
			if !isBlank(out[i]) {
				return out[i]
			}
		}
		return ""
	}

	ensureBlank := func() {
		if len(out) > 0 && !isBlank(out[len(out)-1]) {
			out = append(out, "")
		}
	}

	inTable := false
	afterHeading := false

	for _, line := range lines {
		tableRow := isTableRow(line)

		// Close a table block with a blank line.
		if inTable && !tableRow && !isBlank(line) {
			ensureBlank()
		}
		inTable = tableRow

		switch {
		case headingRe.MatchString(line):
			if heading2Re.MatchString(line) && len(out) > 0 && !hrRe.MatchString(lastNonBlank()) {
				ensureBlank()
				out = append(out, "---")
			}
			ensureBlank()
			out = append(out, line)
			afterHeading = true
			continue

		case tableRow:
			if prev := len(out); prev > 0 && !isBlank(out[prev-1]) && !isTableRow(out[prev-1]) {
				out = append(out, "")
			}

		case listItemRe.MatchString(line):
			if prev := len(out); prev > 0 && !isBlank(out[prev-1]) && !listItemRe.MatchString(out[prev-1]) {
				out = append(out, "")
			}
		}

		if afterHeading && !isBlank(line) && len(out) > 0 && !isBlank(out[len(out)-1]) {
			out = append(out, "")
		}
		afterHeading = false

		out = append(out, line)
	}

	// Trim trailing blank lines introduced by the pass.
	for len(out) > 0 && isBlank(out[len(out)-1]) {
		out = out[:len(out)-1]
	}

	return strings.Join(out, "\n")
}
