// Package views renders the site's pages as templ components.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"longDate":  func(t time.Time) string { return t.Format("January 2, 2006") },
	"shortDate": func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"isoDate":   func(t time.Time) string { return t.Format("2006-01-02") },
	"postURL":   func(slug string) string { return BuildURL("/", "blog", slug) },
	"tagClass":  TagClass,
}

var pages = map[string]*template.Template{
	"home":     parsePage("home.html"),
	"post":     parsePage("post.html"),
	"notfound": parsePage("notfound.html"),
	"error":    parsePage("error.html"),
}

func parsePage(name string) *template.Template {
	return template.Must(template.New("layout.html").Funcs(funcs).
		ParseFS(templateFS, "templates/layout.html", "templates/partials.html", "templates/"+name))
}

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages[name].ExecuteTemplate(w, "layout.html", data)
	})
}

type homeData struct {
	Site      Site
	Meta      PageMeta
	Posts     []PostSummary
	Projects  []Project
	Tags      []string
	ActiveTag string
}

type postData struct {
	Site    Site
	Meta    PageMeta
	Post    Post
	Related []PostSummary
}

type statusData struct {
	Site Site
	Meta PageMeta
}

// Home is the landing page: profile, post listing and projects.
func Home(site Site, posts []PostSummary, projects []Project, tags []string, activeTag string) templ.Component {
	return page("home", homeData{
		Site: site,
		Meta: PageMeta{
			Title:       site.Name,
			Description: firstNonEmpty(site.BioShort, site.Description),
			URL:         BuildURL(site.URL),
			OGType:      "website",
			JSONLD:      WebsiteJsonLD(site),
		},
		Posts:     posts,
		Projects:  projects,
		Tags:      tags,
		ActiveTag: activeTag,
	})
}

// PostPage renders a single post. posts is the visible listing used for
// the related section.
func PostPage(site Site, post Post, posts []PostSummary) templ.Component {
	return page("post", postData{
		Site: site,
		Meta: PageMeta{
			Title:       post.Title,
			Description: post.Description,
			URL:         PostURL(site, post.Slug),
			OGType:      "article",
			Image:       OGImageURL(site, post.Slug),
			JSONLD:      BlogPostingJsonLD(site, post.PostSummary),
		},
		Post:    post,
		Related: FilterRelatedPosts(post.PostSummary, posts),
	})
}

// NotFound is the 404 page.
func NotFound(site Site) templ.Component {
	return page("notfound", statusData{
		Site: site,
		Meta: PageMeta{Title: "Not found", Description: site.Description},
	})
}

// ServerError is the 5xx page.
func ServerError(site Site) templ.Component {
	return page("error", statusData{
		Site: site,
		Meta: PageMeta{Title: "Something went wrong", Description: site.Description},
	})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
