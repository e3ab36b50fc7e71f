package domain

import "testing"

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "plain http", input: "http://example.com", want: true},
		{name: "https with path", input: "https://go.dev/blog/", want: true},
		{name: "uppercase scheme", input: "HTTPS://EXAMPLE.COM", want: true},
		{name: "ftp", input: "ftp://files.example.org/pub", want: true},
		{name: "ftps", input: "ftps://files.example.org", want: true},
		{name: "localhost with port", input: "http://localhost:8080/x", want: true},
		{name: "ipv4", input: "http://192.168.1.10", want: true},
		{name: "ipv6", input: "http://[::1]:8080/", want: true},
		{name: "query with comma and quote", input: `http://example.com/a,b?q="x"`, want: true},
		{name: "reserved xml characters", input: "http://example.com/?a=1&b=<2>", want: true},
		{name: "trailing slash", input: "http://example.com/", want: true},
		{name: "no scheme", input: "invalid-url", want: false},
		{name: "bare domain", input: "example.com", want: false},
		{name: "unsupported scheme", input: "mailto://example.com", want: false},
		{name: "whitespace in path", input: "http://example.com/a b", want: false},
		{name: "empty", input: "", want: false},
		{name: "scheme only", input: "http://", want: false},
		{name: "unicode path", input: "http://example.com/ünïcödé", want: true},
		{name: "control byte in path", input: "http://example.com/a\x01b", want: false},
		{name: "vertical tab in path", input: "http://example.com/a\x0bb", want: false},
		{name: "delete in query", input: "http://example.com/?q=\x7f", want: false},
		{name: "invalid utf8 in path", input: "http://example.com/a\xffb", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidURL(tt.input); got != tt.want {
				t.Errorf("IsValidURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"true", true},
		{"True", true},
		{" TRUE ", true},
		{"false", false},
		{"False", false},
		{"1", false},
		{"yes", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ParseStatus(tt.input); got != tt.want {
			t.Errorf("ParseStatus(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	for _, b := range []bool{true, false} {
		if got := ParseStatus(FormatStatus(b)); got != b {
			t.Errorf("ParseStatus(FormatStatus(%v)) = %v", b, got)
		}
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "read later", want: "read later"},
		{name: "crlf", input: "a\r\nb", want: "a\nb"},
		{name: "lone cr", input: "a\rb", want: "a\nb"},
		{name: "tab kept", input: "a\tb", want: "a\tb"},
		{name: "controls dropped", input: "a\x01b\x0bc\x7f", want: "abc"},
		{name: "invalid utf8", input: "a\xffb", want: "a\uFFFDb"},
		{name: "trimmed", input: "  \r\n padded \n", want: "padded"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
