package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  plain   text ", "plain text"},
		{"<b>bold</b> &amp; more", "bold & more"},
		{"a<script>alert(1)</script>b", "ab"},
		{"line\none\x00", "line one"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Text(tt.in), tt.in)
	}
}

func TestTextarea_KeepsLines(t *testing.T) {
	assert.Equal(t, "first line\nsecond", Textarea("  first   line \r\n second "))
}

func TestURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"https://example.com/a?b=c", "https://example.com/a?b=c"},
		{"mailto:hi@example.com", "mailto:hi@example.com"},
		{"/relative/path", "/relative/path"},
		{"example.com", "http://example.com"},
		{"javascript:alert(1)", ""},
		{"data:text/html,hi", ""},
		{"", ""},
		{"https://example.com/a b", "https://example.com/a%20b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, URL(tt.in), tt.in)
	}
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "a.b@example.com", Email(" a.b@Example.com "))
	assert.Empty(t, Email("no-at-sign"))
	assert.Empty(t, Email("a@localhost"))
	assert.Empty(t, Email("a@b@c.com"))
}

func TestTrimWords(t *testing.T) {
	assert.Equal(t, "one two...", TrimWords("one two three", 2, "..."))
	assert.Equal(t, "one two", TrimWords("<p>one</p> two", 2, "..."))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "about-us", Slug("About Us!"))
	assert.Equal(t, "caf-2", Slug("--Caf§ 2--"))
	assert.Empty(t, Slug("!!!"))
}
