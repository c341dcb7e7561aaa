package portfolio

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/amandeeptherockstar/portfolio/content"
	"github.com/amandeeptherockstar/portfolio/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// lastMod picks the modify date, then the index's last change, then the
// publish date.
func lastMod(d content.Document, changed map[string]time.Time) time.Time {
	if !d.ModifyDate.IsZero() {
		return d.ModifyDate
	}
	if t, ok := changed[d.Slug]; ok && !t.IsZero() {
		return t
	}
	return d.PublishDate
}

func (a *App) renderSitemap(c echo.Context, docs []content.Document) error {
	var changed map[string]time.Time
	if a.Store != nil {
		var err error
		changed, err = a.Store.LastChanged(c.Request().Context())
		if err != nil {
			a.logger.Warn("content index unavailable for sitemap", "error", err)
		}
	}
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: views.BuildURL(base)},
	}
	for _, d := range docs {
		urls = append(urls, sitemapURL{
			Loc:     views.BuildURL(base, "blog", d.Slug),
			LastMod: lastMod(d, changed).Format("2006-01-02"),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
