package markdown

import (
	"github.com/microcosm-cc/bluemonday"
)

// blockAndInline are allowed with or without attributes.
var blockAndInline = []string{
	"address", "article", "aside", "footer", "header",
	"h1", "h2", "h3", "h4", "h5", "h6", "hgroup", "main", "nav", "section",
	"blockquote", "dd", "div", "dl", "dt", "figcaption", "figure", "hr", "li", "ol", "p", "pre", "ul",
	"abbr", "b", "bdi", "bdo", "br", "cite", "code", "data", "dfn", "em", "i", "kbd", "mark",
	"q", "rb", "rp", "rt", "rtc", "ruby", "s", "samp", "small", "span", "strong", "sub", "sup",
	"time", "u", "var", "wbr", "caption", "col", "colgroup", "table", "tbody", "td", "tfoot",
	"th", "thead", "tr", "del",
}

// feedPolicy is the conservative syndication allow-list plus img. Policies
// are safe for concurrent use once built.
var feedPolicy = newFeedPolicy()

func newFeedPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(blockAndInline...)
	p.AllowNoAttrs().OnElements(blockAndInline...)

	p.AllowAttrs("href", "name", "target").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height", "loading").OnElements("img")
	p.AllowAttrs("align", "colspan", "rowspan").OnElements("th", "td")
	p.AllowAttrs("start").OnElements("ol")
	p.AllowAttrs("datetime").OnElements("time")

	p.AllowURLSchemes("http", "https", "mailto", "tel")
	p.AllowRelativeURLs(true)

	// dropped together with everything inside them
	p.SkipElementsContent(
		"script", "style", "textarea", "option", "noscript", "iframe", "object", "embed",
		"frame", "frameset", "template", "svg", "math", "select", "applet",
	)
	return p
}

// Sanitize reduces HTML to the syndication allow-list. Script-capable
// elements are dropped with their content, unknown elements are unwrapped,
// attributes are allow-listed per tag and link targets must use a safe scheme.
func Sanitize(src string) string {
	return feedPolicy.Sanitize(src)
}
