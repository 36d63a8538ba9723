package util

import (
	"regexp"
	"strings"
)

var (
	lineBreaks = regexp.MustCompile(`[\r\n]+`)
	spaces     = regexp.MustCompile(` {2,}`)
)

// CleanText flattens text for tabular output: line-break runs become one space,
// space runs collapse to one, and the result is trimmed. Empty input stays empty.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = lineBreaks.ReplaceAllString(s, " ")
	s = spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// JoinNonEmpty joins the non-empty parts with sep.
func JoinNonEmpty(parts []string, sep string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
