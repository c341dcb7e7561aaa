package views

import (
	"encoding/json"
	"html/template"
	"net/url"
	"path"
	"strings"
)

// BuildURL joins path segments onto a base URL without a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, path.Join(pathSegments...))
	if len(pathSegments) == 0 {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	return u.String()
}

// PostURL is the canonical URL of a post.
func PostURL(site Site, slug string) string {
	return BuildURL(site.URL, "blog", slug)
}

// OGImageURL is the social preview image URL of a post.
func OGImageURL(site Site, slug string) string {
	return BuildURL(site.URL, "blog", slug, "og.png")
}

// FilterRelatedPosts returns posts that share at least one tag with the current post.
func FilterRelatedPosts(current PostSummary, posts []PostSummary) []PostSummary {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []PostSummary
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[strings.ToLower(strings.TrimSpace(t))]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	if active {
		return "tag tag-active"
	}
	return "tag"
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block for the homepage.
func WebsiteJsonLD(site Site) template.JS {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      site.URL,
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if author := authorName(site); author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
			"url":   site.URL,
		}
	}
	return marshalJsonLD(data)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(site Site, post PostSummary) template.JS {
	keywords := post.Tags
	if keywords == nil {
		keywords = []string{}
	}
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Description,
		"keywords":      keywords,
		"datePublished": post.PublishDate.Format("2006-01-02"),
		"author": map[string]string{
			"@type": "Person",
			"name":  authorName(site),
			"url":   site.URL,
		},
	}
	return marshalJsonLD(data)
}

func authorName(site Site) string {
	if site.Author != "" {
		return site.Author
	}
	return site.Name
}

func marshalJsonLD(data map[string]any) template.JS {
	// json.Marshal escapes <, > and &, so the output cannot close the script element
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return template.JS(b)
}
