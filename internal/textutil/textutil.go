// Package textutil prepares user-generated text for terminal display.
package textutil

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()

	blockTags  = regexp.MustCompile(`(?i)<\s*(br|/p|/div|/li|/h[1-6])\s*/?>`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// PlainText strips all markup from s, keeping line breaks from block
// elements, and unescapes entities. Safe for concurrent use.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	s = blockTags.ReplaceAllString(s, "\n")
	s = strict.Sanitize(s)
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// SingleLine flattens s onto one line for list rows.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(PlainText(s)), " ")
}
