// Package snippet extracts short excerpts around a query match and marks the
// matched spans for display.
package snippet

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultBefore is the number of bytes kept before the match.
	DefaultBefore = 50
	// DefaultAfter is the number of bytes kept after the match.
	DefaultAfter = 50

	// Ellipsis is placed on both sides of every excerpt.
	Ellipsis = "..."
)

// Extract returns the part of content surrounding the first case-insensitive
// occurrence of query, from before bytes ahead of the match to after bytes
// past its end, wrapped in ellipses. When the query does not occur (vector
// matches need not contain the query text) the window starts at offset 0.
// Window bounds are clamped to the content and snapped inward to rune
// boundaries.
func Extract(content, query string, before, after int) string {
	if before < 0 {
		before = 0
	}
	if after < 0 {
		after = 0
	}

	idx, matchLen := 0, len(query)
	if loc := find(content, query); loc != nil {
		idx, matchLen = loc[0], loc[1]-loc[0]
	}

	start := idx - before
	if start < 0 {
		start = 0
	}
	end := idx + matchLen + after
	if end > len(content) {
		end = len(content)
	}
	if start > end {
		start = end
	}

	for start < end && !utf8.RuneStart(content[start]) {
		start++
	}
	for end > start && end < len(content) && !utf8.RuneStart(content[end]) {
		end--
	}

	return Ellipsis + content[start:end] + Ellipsis
}

// Highlight wraps every case-insensitive occurrence of query in s with open
// and close. It returns s unchanged when query is blank or absent.
func Highlight(s, query, open, close string) string {
	return highlight(s, query, open, close, func(v string) string { return v })
}

// HighlightHTML is Highlight for HTML output: the text is escaped and each
// match is wrapped in <strong> tags.
func HighlightHTML(s, query string) string {
	return highlight(s, query, "<strong>", "</strong>", html.EscapeString)
}

func highlight(s, query, open, close string, escape func(string) string) string {
	re := pattern(query)
	if re == nil {
		return escape(s)
	}
	locs := re.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return escape(s)
	}

	var sb strings.Builder
	last := 0
	for _, loc := range locs {
		sb.WriteString(escape(s[last:loc[0]]))
		sb.WriteString(open)
		sb.WriteString(escape(s[loc[0]:loc[1]]))
		sb.WriteString(close)
		last = loc[1]
	}
	sb.WriteString(escape(s[last:]))
	return sb.String()
}

// find returns the byte range of the first case-insensitive occurrence of
// query in content, or nil.
func find(content, query string) []int {
	re := pattern(query)
	if re == nil {
		return nil
	}
	return re.FindStringIndex(content)
}

// pattern compiles query as a literal, case-insensitive expression.
func pattern(query string) *regexp.Regexp {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
}
