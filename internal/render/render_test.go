package render

import (
	"strings"
	"testing"

	"github.com/inkwell-blog/inkwell/internal/util"
)

func TestRenderMarkdown(t *testing.T) {
	html := string(RenderMarkdown([]byte("# Title\n\nSome *emphasis*."), "gruvbox"))

	if !strings.Contains(html, "<h1") {
		t.Errorf("Expected an h1 in output: %s", html)
	}
	if !strings.Contains(html, "<em>emphasis</em>") {
		t.Errorf("Expected emphasis in output: %s", html)
	}
}

func TestRenderMarkdownHighlightsCodeBlocks(t *testing.T) {
	md := "```go\npackage main\n```\n"
	html := string(RenderMarkdown([]byte(md), "gruvbox"))

	if !strings.Contains(html, `<div class="highlight">`) {
		t.Errorf("Expected a highlight wrapper in output: %s", html)
	}
}

func TestRenderMarkdownCached(t *testing.T) {
	md := []byte("# Cached")
	hash := util.ContentHash(md)

	first := RenderMarkdownCached(md, hash, "gruvbox")
	second := RenderMarkdownCached(md, hash, "gruvbox")

	if string(first) != string(second) {
		t.Error("Cached render differs from first render")
	}
}

func TestStripMarkup(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"plain text", "hello world", "hello world"},
		{"markdown formatting", "# Title\n\nSome *body* text", "Title Some body text"},
		{"empty string", "", ""},
		{"whitespace only", "   \n\t  ", ""},
		{"markup only", "<p></p><br>", ""},
		{"thematic break only", "***", ""},
		{"nbsp only", "&nbsp;&nbsp;", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Collapse whitespace: block elements leave newlines behind.
			got := strings.Join(strings.Fields(StripMarkup(tc.body)), " ")
			if got != tc.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tc.body, got, tc.want)
			}
		})
	}
}

// The editor's emptiness check relies on markup-only bodies stripping to "".
func TestStripMarkupEmptiness(t *testing.T) {
	empty := []string{"", "  ", "<p> </p>", "<div><span></span></div>"}
	for _, body := range empty {
		if StripMarkup(body) != "" {
			t.Errorf("StripMarkup(%q) should be empty, got %q", body, StripMarkup(body))
		}
	}

	if StripMarkup("<p>real content</p>") == "" {
		t.Error("Visible content must not strip to empty")
	}
}
