package portfolio

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/amandeeptherockstar/portfolio/content"
	"github.com/amandeeptherockstar/portfolio/views"
)

// summarize converts documents to listing entries.
func summarize(docs []content.Document) []views.PostSummary {
	out := make([]views.PostSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, summary(d))
	}
	return out
}

func summary(d content.Document) views.PostSummary {
	return views.PostSummary{
		Title:       d.Title,
		Slug:        d.Slug,
		Description: d.Description,
		PublishDate: d.PublishDate,
		Tags:        d.Tags,
		Draft:       d.Draft,
	}
}

func postView(d content.Document, body string) views.Post {
	return views.Post{
		PostSummary: summary(d),
		ModifyDate:  d.ModifyDate,
		// bodies come from the site's own content directory
		Body: template.HTML(body),
	}
}

// robotsTxt allows everything and points crawlers at the sitemap.
func robotsTxt(siteURL string) string {
	return fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", views.BuildURL(siteURL, "sitemap.xml"))
}

// splitOGPath reports whether a /blog/* wildcard targets a post's preview
// image and returns the post slug.
func splitOGPath(p string) (slug string, og bool) {
	p = strings.Trim(p, "/")
	if s, ok := strings.CutSuffix(p, "/og.png"); ok {
		return s, true
	}
	return p, false
}

func sortStrings(lists ...[]string) {
	for _, l := range lists {
		sort.Strings(l)
	}
}
