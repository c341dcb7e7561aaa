package portfolio

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/amandeeptherockstar/portfolio/content"
	"github.com/amandeeptherockstar/portfolio/ogimage"
	"github.com/amandeeptherockstar/portfolio/views"
)

func (a *App) handleOGImage(c echo.Context, slug string) error {
	if !a.ogLimiter.Allow(c.RealIP()) {
		a.Metrics.IncOGRender("throttled")
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests. Try again later.")
	}
	doc, err := a.Content.GetDocument(slug)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			a.Metrics.IncOGRender("not_found")
			return RenderStatus(c, http.StatusNotFound, views.NotFound(a.siteView()))
		}
		return err
	}
	var buf bytes.Buffer
	err = ogimage.Render(&buf, ogimage.Options{
		Title: doc.Title,
		Name:  a.Config.Name,
		URL:   a.Config.URL,
	})
	if err != nil {
		a.Metrics.IncOGRender("error")
		return err
	}
	a.Metrics.IncOGRender("ok")
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}
