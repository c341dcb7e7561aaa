package views

import (
	"html/template"
	"time"
)

// Site holds site-wide identity and the owner profile. Every page receives
// it so nothing is hardcoded in templates.
type Site struct {
	Name        string // SITE_NAME
	URL         string // SITE_URL, no trailing slash
	Description string // SITE_DESCRIPTION
	Author      string // SITE_AUTHOR

	BioShort    string
	BioDetailed string
	Company     string
	CompanyURL  string
	Location    string
	Education   string
	Email       string
	Socials     []Social
}

// Social is one header link.
type Social struct {
	Label string
	Href  string
}

// Project is a homepage project card. Stars is zero when the count is
// unknown, in which case no badge is shown.
type Project struct {
	Name        string
	Href        string
	Description string
	Repo        string // owner/repo on GitHub
	Stars       int
}

// PostSummary is a listing entry.
type PostSummary struct {
	Title       string
	Slug        string
	Description string
	PublishDate time.Time
	Tags        []string
	Draft       bool
}

// Post is a fully rendered post page.
type Post struct {
	PostSummary
	ModifyDate time.Time
	Body       template.HTML
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
	JSONLD      template.JS
}
