// Package markdown renders MDX post bodies to HTML and sanitizes the result
// for syndication.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// DefaultStyle is the chroma style used for fenced code blocks.
const DefaultStyle = "github-dark"

// Renderer converts MDX bodies to HTML with GitHub-flavored extensions,
// heading anchors and syntax highlighting. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// Option configures a Renderer.
type Option func(*config)

type config struct {
	style       string
	lineNumbers bool
}

// WithStyle selects the chroma highlighting style.
func WithStyle(style string) Option {
	return func(c *config) { c.style = style }
}

// WithLineNumbers toggles line numbers in highlighted code blocks.
func WithLineNumbers(on bool) Option {
	return func(c *config) { c.lineNumbers = on }
}

// New builds a Renderer.
func New(opts ...Option) *Renderer {
	cfg := config{style: DefaultStyle}
	for _, opt := range opts {
		opt(&cfg)
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(cfg.style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false),
					chromahtml.WithLineNumbers(cfg.lineNumbers),
				),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// post bodies are authored by the site owner and may embed raw HTML/JSX
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	return &Renderer{md: md}
}

// Render converts an MDX body to HTML.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(PreprocessMDX(src)), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Component returns a templ.Component that renders src as HTML.
func (r *Renderer) Component(src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := r.Render(src)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}
