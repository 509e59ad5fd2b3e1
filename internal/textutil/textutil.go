// Package textutil prepares model output for plain-text surfaces such as the
// PDF report: it strips Markdown emphasis, normalizes list layout, and wraps
// long lines.
package textutil

import (
	"regexp"
	"strings"
)

var (
	boldMarkers     = regexp.MustCompile(`\*\*`)
	numberedSection = regexp.MustCompile(`(\d+\.)`)
	bulletPoint     = regexp.MustCompile(`\n?\s*\*`)
)

// Beautify formats text for readability: bold markers are removed, numbered
// sections and bullet points start on their own lines, and lines are wrapped
// to the given width.
func Beautify(text string, width int) string {
	text = boldMarkers.ReplaceAllString(text, "")
	text = numberedSection.ReplaceAllString(text, "\n$1")
	text = bulletPoint.ReplaceAllString(text, "\n- ")

	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, Wrap(line, width))
		} else {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Wrap breaks a single line into lines no longer than width, splitting on
// spaces. Words longer than the width stay intact on their own line.
func Wrap(line string, width int) string {
	if width <= 0 {
		return line
	}
	words := strings.Fields(line)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range words {
		if i == 0 {
			b.WriteString(word)
			lineLen = len(word)
			continue
		}
		if lineLen+1+len(word) > width {
			b.WriteString("\n")
			b.WriteString(word)
			lineLen = len(word)
		} else {
			b.WriteString(" ")
			b.WriteString(word)
			lineLen += 1 + len(word)
		}
	}
	return b.String()
}
