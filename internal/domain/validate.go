package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// urlPattern accepts http, https, ftp and ftps URLs whose host is a domain
// name, localhost, an IPv4 literal or an IPv6 literal, with an optional port
// and an optional path or query without whitespace or control characters.
var urlPattern = regexp.MustCompile(`(?i)^(?:http|ftp)s?://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+(?:[A-Z]{2,6}\.?|[A-Z0-9-]{2,}\.?)|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}|` +
	`\[?[A-F0-9]*:[A-F0-9:]+\]?)` +
	`(?::\d+)?` +
	`(?:/?|[/?][^\s\x00-\x1f\x7f]+)$`)

// IsValidURL performs a syntax check only. Nothing is resolved or fetched.
// Invalid UTF-8 is rejected so a stored URL survives every export format.
func IsValidURL(candidate string) bool {
	return utf8.ValidString(candidate) && urlPattern.MatchString(candidate)
}

// CleanText normalises free text (descriptions, categories) before it is
// stored: line endings become "\n", control characters other than tab and
// newline are dropped, invalid UTF-8 is replaced and surrounding space is
// trimmed. The result is written back unchanged by every export format.
func CleanText(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
