package portfolio

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/amandeeptherockstar/portfolio/content"
	"github.com/amandeeptherockstar/portfolio/markdown"
	"github.com/amandeeptherockstar/portfolio/views"
)

const feedGenerator = "portfolio"

type rssXML struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	ContentNS string     `xml:"xmlns:content,attr"`
	AtomNS    string     `xml:"xmlns:atom,attr"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	AtomLink      atomLink  `xml:"atom:link"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Generator     string    `xml:"generator"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	GUID        rssGUID  `xml:"guid"`
	PubDate     string   `xml:"pubDate"`
	Categories  []string `xml:"category"`
	Content     cdata    `xml:"content:encoded"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

type cdata struct {
	Value string `xml:",cdata"`
}

// buildFeed assembles the RSS document for docs. A document whose body
// fails to render is left out and logged; the rest of the feed is served.
func (a *App) buildFeed(docs []content.Document) rssXML {
	base := a.Config.URL
	items := make([]rssItem, 0, len(docs))
	var newest time.Time
	for _, d := range docs {
		body, err := a.Markdown.Render(d.Body)
		if err != nil {
			a.logger.Warn("feed item skipped", "slug", d.Slug, "error", err)
			a.Metrics.IncFeedItemSkipped()
			continue
		}
		if lm := d.LastModified(); lm.After(newest) {
			newest = lm
		}
		postURL := views.BuildURL(base, "blog", d.Slug)
		items = append(items, rssItem{
			Title:       d.Title,
			Link:        postURL,
			Description: d.Description,
			GUID:        rssGUID{Value: postURL, IsPermaLink: true},
			PubDate:     d.PublishDate.Format(time.RFC1123Z),
			Categories:  d.Tags,
			Content:     cdata{Value: markdown.Sanitize(body)},
		})
	}
	ch := rssChannel{
		Title:       base,
		Link:        base,
		Description: a.Config.Description,
		AtomLink: atomLink{
			Href: views.BuildURL(base, "api", "rss"),
			Rel:  "self",
			Type: "application/rss+xml",
		},
		Language:  "en-us",
		Generator: feedGenerator,
		Items:     items,
	}
	if !newest.IsZero() {
		ch.LastBuildDate = newest.Format(time.RFC1123Z)
	}
	return rssXML{
		Version:   "2.0",
		ContentNS: "http://purl.org/rss/1.0/modules/content/",
		AtomNS:    "http://www.w3.org/2005/Atom",
		Channel:   ch,
	}
}

func (a *App) renderRSS(c echo.Context, docs []content.Document) error {
	feed := a.buildFeed(docs)
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	enc := xml.NewEncoder(c.Response())
	enc.Indent("", "  ")
	return enc.Encode(feed)
}
