package views

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
)

var testSite = Site{
	Name:        "Jane Doe",
	URL:         "https://example.com",
	Description: "Portfolio of Jane Doe.",
	BioShort:    "I build things for the web.",
	Company:     "Acme",
	CompanyURL:  "https://acme.example",
	Email:       "jane@example.com",
	Socials:     []Social{{Label: "GitHub", Href: "https://github.com/jane"}},
}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return buf.String()
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		expected string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com/", nil, "https://example.com"},
		{"https://example.com", []string{"blog", "hello"}, "https://example.com/blog/hello"},
		{"https://example.com/portfolio", []string{"blog", "a/b", "og.png"}, "https://example.com/portfolio/blog/a/b/og.png"},
		{"/", []string{"blog", "hello"}, "/blog/hello"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.expected {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.expected)
		}
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	post := PostSummary{
		Title:       "Hello </script>",
		Slug:        "hello",
		Description: "First post",
		PublishDate: time.Date(2024, 3, 9, 15, 4, 0, 0, time.UTC),
		Tags:        []string{"go", "web"},
	}
	raw := BlogPostingJsonLD(testSite, post)
	if strings.Contains(string(raw), "</script>") {
		t.Fatalf("JSON-LD must not be able to close the script element: %s", raw)
	}

	var got struct {
		Type          string   `json:"@type"`
		Headline      string   `json:"headline"`
		Description   string   `json:"description"`
		Keywords      []string `json:"keywords"`
		DatePublished string   `json:"datePublished"`
		Author        struct {
			Type string `json:"@type"`
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"author"`
	}
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if got.Type != "BlogPosting" || got.Headline != post.Title || got.Description != "First post" {
		t.Errorf("unexpected JSON-LD: %+v", got)
	}
	if strings.Join(got.Keywords, ",") != "go,web" {
		t.Errorf("keywords = %v", got.Keywords)
	}
	if got.DatePublished != "2024-03-09" {
		t.Errorf("datePublished = %q", got.DatePublished)
	}
	if got.Author.Type != "Person" || got.Author.Name != "Jane Doe" || got.Author.URL != "https://example.com" {
		t.Errorf("author = %+v", got.Author)
	}
}

func TestBlogPostingJsonLDEmptyKeywordsIsArray(t *testing.T) {
	raw := string(BlogPostingJsonLD(testSite, PostSummary{Title: "x"}))
	if !strings.Contains(raw, `"keywords":[]`) {
		t.Errorf("keywords should be an empty array: %s", raw)
	}
}

func TestFilterRelatedPosts(t *testing.T) {
	current := PostSummary{Slug: "a", Tags: []string{"Go"}}
	posts := []PostSummary{
		{Slug: "a", Tags: []string{"go"}},
		{Slug: "b", Tags: []string{"rust"}},
		{Slug: "c", Tags: []string{" go "}},
	}
	related := FilterRelatedPosts(current, posts)
	if len(related) != 1 || related[0].Slug != "c" {
		t.Errorf("related = %+v", related)
	}
}

func TestHomeRendersListingAndProjects(t *testing.T) {
	posts := []PostSummary{
		{Title: "Newer", Slug: "newer", PublishDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "Older", Slug: "series/older", PublishDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	projects := []Project{
		{Name: "starred", Href: "https://github.com/jane/starred", Stars: 12},
		{Name: "quiet", Href: "https://github.com/jane/quiet"},
	}
	out := renderString(t, Home(testSite, posts, projects, []string{"go"}, "go"))

	for _, want := range []string{
		"<title>Jane Doe</title>",
		`href="/blog/newer"`,
		`href="/blog/series/older"`,
		"May 1, 2024",
		"Hey there, I build things for the web.",
		`title="starred 12 times on GitHub"`,
		`href="mailto:jane@example.com"`,
		`href="/?tag=go"`,
		`<script type="application/ld+json">{`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("home page missing %q", want)
		}
	}
	if strings.Index(out, "Newer") > strings.Index(out, "Older") {
		t.Errorf("listing order should be preserved")
	}
	if strings.Count(out, `class="stars"`) != 1 {
		t.Errorf("only projects with a positive count get a badge")
	}
}

func TestPostPageRendersMetadata(t *testing.T) {
	post := Post{
		PostSummary: PostSummary{
			Title:       "Hello World",
			Slug:        "hello",
			Description: "First post",
			PublishDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Tags:        []string{"go"},
		},
		Body: template.HTML(`<h2 id="intro">Intro</h2><p>body</p>`),
	}
	out := renderString(t, PostPage(testSite, post, []PostSummary{post.PostSummary, {Title: "Sibling", Slug: "sib", Tags: []string{"go"}}}))

	for _, want := range []string{
		"<title>Hello World | Jane Doe</title>",
		`<link rel="canonical" href="https://example.com/blog/hello">`,
		`<meta property="og:image" content="https://example.com/blog/hello/og.png">`,
		`<meta name="twitter:card" content="summary_large_image">`,
		`<meta property="og:type" content="article">`,
		`"@type":"BlogPosting"`,
		"January 2, 2024",
		`<h2 id="intro">Intro</h2>`,
		`href="/blog/sib"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("post page missing %q", want)
		}
	}
}

func TestPostPageEscapesTitle(t *testing.T) {
	post := Post{PostSummary: PostSummary{Title: "<b>bold</b>", Slug: "x"}}
	out := renderString(t, PostPage(testSite, post, nil))
	if strings.Contains(out, "<h1><b>bold</b></h1>") {
		t.Errorf("title must be escaped")
	}
}

func TestStatusPages(t *testing.T) {
	if out := renderString(t, NotFound(testSite)); !strings.Contains(out, "404") {
		t.Errorf("not found page missing status: %s", out)
	}
	if out := renderString(t, ServerError(testSite)); !strings.Contains(out, "500") {
		t.Errorf("error page missing status: %s", out)
	}
}
