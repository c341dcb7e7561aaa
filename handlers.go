package portfolio

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/amandeeptherockstar/portfolio/content"
	"github.com/amandeeptherockstar/portfolio/views"
)

func (a *App) handleHome(c echo.Context) error {
	tag := content.NormalizeTag(c.QueryParam("tag"))
	docs := a.Content.ListDocuments(tag)
	tags := a.Content.ListTags()
	return Render(c, views.Home(a.siteView(), summarize(docs), a.projects(c.Request().Context()), tags, tag))
}

// projects resolves star counts for the profile projects. Counts that cannot
// be fetched in time are left at zero, which renders no badge.
func (a *App) projects(ctx context.Context) []views.Project {
	if len(a.Profile.Projects) == 0 {
		return nil
	}
	refs := make([]string, 0, len(a.Profile.Projects))
	for _, p := range a.Profile.Projects {
		if ref := p.repoRef(a.Config.GitHubOwner); ref != "" {
			refs = append(refs, ref)
		}
	}
	var counts map[string]int
	if a.Stars != nil && len(refs) > 0 {
		ctx, cancel := context.WithTimeout(ctx, a.Config.StarTimeout)
		counts = a.Stars.CountAll(ctx, refs)
		cancel()
	}
	out := make([]views.Project, 0, len(a.Profile.Projects))
	for _, p := range a.Profile.Projects {
		ref := p.repoRef(a.Config.GitHubOwner)
		out = append(out, views.Project{
			Name:        p.Name,
			Href:        p.Href,
			Description: p.Description,
			Repo:        ref,
			Stars:       counts[ref],
		})
	}
	return out
}

// handleBlog serves /blog/{slug} and /blog/{slug}/og.png. Slugs may contain
// slashes, so both share a wildcard route.
func (a *App) handleBlog(c echo.Context) error {
	slug, og := splitOGPath(c.Param("*"))
	if slug == "" {
		return handleBlogRedirect(c)
	}
	if og {
		return a.handleOGImage(c, slug)
	}
	return a.handlePost(c, slug)
}

func (a *App) handlePost(c echo.Context, slug string) error {
	doc, err := a.Content.GetDocument(slug)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound(a.siteView()))
		}
		return err
	}
	body, err := a.Markdown.Render(doc.Body)
	if err != nil {
		return err
	}
	listing := summarize(a.Content.ListDocuments(""))
	return Render(c, views.PostPage(a.siteView(), postView(doc, body), listing))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Content.ListDocuments(""))
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Content.ListDocuments(""))
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func handleFeedRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/api/rss")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, robotsTxt(a.Config.URL))
}

func handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.siteView()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.siteView()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
