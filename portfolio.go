// Package portfolio serves a personal portfolio and MDX blog: the profile
// homepage, post pages, an RSS feed, social preview images and a sitemap.
//
// Content is read from a directory of MDX files at startup and held as an
// immutable snapshot; in development mode a watcher swaps in a fresh
// snapshot whenever files change.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/amandeeptherockstar/portfolio/content"
	"github.com/amandeeptherockstar/portfolio/markdown"
	"github.com/amandeeptherockstar/portfolio/stars"
)

// App is the central application. It wires together the content snapshot,
// the content index, handlers and middleware.
type App struct {
	Config   SiteConfig
	Profile  Profile
	Echo     *echo.Echo
	Store    *Store
	Content  *ContentCache
	Markdown *markdown.Renderer
	Stars    *stars.Client
	Metrics  *Metrics

	logger       *slog.Logger
	registry     *prometheus.Registry
	ogLimiter    *RateLimiter
	watcher      *ContentWatcher
	contentFS    fs.FS
	profileSet   bool
	customRoutes []func(*App)
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:   cfg,
		Echo:     echo.New(),
		Markdown: markdown.New(),
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(log.INFO)

	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
	}
	return a
}

// Setup loads the profile and content, opens the content index and
// registers middleware and routes. It does not start listening.
func (a *App) Setup(ctx context.Context) error {
	if err := a.Config.validate(); err != nil {
		return err
	}
	if !a.profileSet {
		p, err := LoadProfile(a.Config.ProfilePath)
		if err != nil {
			return fmt.Errorf("portfolio: %w", err)
		}
		a.Profile = p
	}

	a.Metrics = NewMetrics(a.registry)

	col, err := a.loadContent(ctx)
	if err != nil {
		return err
	}
	a.Content = NewContentCache(col, a.Config.IncludeDrafts())
	a.Metrics.SetDocuments(col.Len())

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("portfolio: init store: %w", err)
	}
	a.Store = store
	a.syncIndex(ctx, col)

	a.Stars, err = stars.New(stars.Config{
		Token:    a.Config.GitHubToken,
		BaseURL:  a.Config.GitHubBaseURL,
		Logger:   a.logger,
		Recorder: a.Metrics,
	})
	if err != nil {
		return fmt.Errorf("portfolio: init star client: %w", err)
	}

	a.ogLimiter = NewRateLimiter(a.Config.OGRateLimit, a.Config.OGRateWindow)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	if a.Config.Watch && a.contentFS == nil {
		w, err := NewContentWatcher(a.Config.ContentDir, a.Reload, a.logger)
		if err != nil {
			return fmt.Errorf("portfolio: %w", err)
		}
		a.watcher = w
		w.Start(ctx)
	}
	return nil
}

// Start runs Setup and serves HTTP until the server is shut down.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}
	a.logger.Info("listening", "addr", a.Config.Addr, "env", a.Config.Env, "documents", a.Content.Snapshot().Len())
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) loadContent(ctx context.Context) (*content.Collection, error) {
	opts := content.Options{
		Root:       a.Config.ContentDir,
		Pattern:    a.Config.ContentPattern,
		SlugPrefix: a.Config.SlugPrefix,
		Logger:     a.logger,
	}
	if a.contentFS != nil {
		return content.LoadFS(ctx, a.contentFS, opts)
	}
	return content.Load(ctx, opts)
}

// Reload rebuilds the content snapshot and swaps it in. On failure the
// current snapshot stays in place.
func (a *App) Reload(ctx context.Context) error {
	col, err := a.loadContent(ctx)
	if err != nil {
		a.Metrics.IncContentReload("failed")
		return err
	}
	a.Content.Replace(col)
	a.Metrics.IncContentReload("ok")
	a.Metrics.SetDocuments(col.Len())
	a.syncIndex(ctx, col)
	a.logger.Info("content reloaded", "documents", col.Len())
	return nil
}

func (a *App) syncIndex(ctx context.Context, col *content.Collection) {
	report, err := a.Store.Sync(ctx, col, time.Now())
	if err != nil {
		a.logger.Warn("content index sync failed", "error", err)
		return
	}
	if !report.Empty() {
		a.logger.Info("content index updated",
			"added", len(report.Added), "changed", len(report.Changed), "removed", len(report.Removed))
	}
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.StaticFS("/public", echo.MustSubFS(EmbeddedAssets, "embedded"))
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/healthz", handleHealth)
	if a.Config.MetricsEnabled {
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: a.registry,
		}))
	}

	e.GET("/", a.handleHome)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/blog/*", a.handleBlog)
	e.GET("/api/rss", a.handleFeed)
	e.GET("/feed.xml", handleFeedRedirect)
	e.GET("/sitemap.xml", a.handleSitemap)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Stop())
	}
	if a.ogLimiter != nil {
		a.ogLimiter.Close()
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}
