package markdown

import (
	"strings"
	"testing"
)

func TestSanitizeDropsScriptCapableElements(t *testing.T) {
	tests := []string{
		`<p>ok</p><script>alert(1)</script>`,
		`<style>body{}</style><p>ok</p>`,
		`<iframe src="https://evil.example"></iframe><p>ok</p>`,
		`<object data="x"></object><embed src="y"><p>ok</p>`,
		`<svg><script>alert(1)</script></svg><p>ok</p>`,
		`<noscript><img src=x></noscript><p>ok</p>`,
	}
	for _, input := range tests {
		got := Sanitize(input)
		for _, bad := range []string{"<script", "<style", "<iframe", "<object", "<embed", "<svg", "alert"} {
			if strings.Contains(got, bad) {
				t.Errorf("Sanitize(%q) = %q, contains %q", input, got, bad)
			}
		}
		if !strings.Contains(got, "<p>ok</p>") {
			t.Errorf("Sanitize(%q) = %q, lost safe content", input, got)
		}
	}
}

func TestSanitizeKeepsImages(t *testing.T) {
	got := Sanitize(`<p><img src="https://example.com/a.png" alt="A" onerror="alert(1)" style="x"></p>`)
	want := `<p><img src="https://example.com/a.png" alt="A"></p>`
	if got != want {
		t.Errorf("Sanitize() = %q, want %q", got, want)
	}
}

func TestSanitizeStripsEventHandlersAndUnsafeURLs(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`<a href="javascript:alert(1)">x</a>`, `x`},
		{`<a href="java&#x09;script:alert(1)">x</a>`, `x`},
		{`<a href="https://example.com" onclick="x()">x</a>`, `<a href="https://example.com">x</a>`},
		{`<a href="/blog/post">x</a>`, `<a href="/blog/post">x</a>`},
		{`<a href="#intro">x</a>`, `<a href="#intro">x</a>`},
		{`<a href="mailto:me@example.com">x</a>`, `<a href="mailto:me@example.com">x</a>`},
		{`<a href="tel:+123">x</a>`, `<a href="tel:+123">x</a>`},
		{`<a href="vbscript:x">x</a>`, `x`},
		{`<img src="images/a.png">`, `<img src="images/a.png">`},
		{`<img src="data:image/png;base64,AAAA">`, ``},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.input); got != tt.expected {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeUnwrapsUnknownTags(t *testing.T) {
	got := Sanitize(`<custom-el><b>bold</b> text</custom-el>`)
	if got != `<b>bold</b> text` {
		t.Errorf("Sanitize() = %q", got)
	}
}

func TestSanitizeHighlightedCode(t *testing.T) {
	html, err := New().Render("```go\nx := 1\n```")
	if err != nil {
		t.Fatal(err)
	}
	got := Sanitize(html)
	if strings.Contains(got, "style=") {
		t.Errorf("inline styles should be stripped: %q", got)
	}
	if !strings.Contains(got, "<pre>") || !strings.Contains(got, "<code>") {
		t.Errorf("code structure should survive: %q", got)
	}
}

func TestSanitizeTables(t *testing.T) {
	got := Sanitize(`<table style="x"><tr><td colspan="2" onclick="x()">cell</td></tr></table>`)
	if !strings.Contains(got, `<td colspan="2">cell</td>`) {
		t.Errorf("Sanitize() = %q", got)
	}
	if strings.Contains(got, "style=") || strings.Contains(got, "onclick") {
		t.Errorf("disallowed attributes survived: %q", got)
	}
}
