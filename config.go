package portfolio

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/amandeeptherockstar/portfolio/content"
)

// Runtime modes. Drafts are listed everywhere except production.
const (
	ModeProduction  = "production"
	ModeDevelopment = "development"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string // Site name (default "Portfolio")
	URL         string // Canonical URL without trailing slash (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD (default Name)
	Env         string // "production" (default) or "development"

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite content index (default "data/portfolio.db")
	ProfilePath  string // YAML profile (default "site/site.yaml")

	ContentDir     string // Content root (default "site/content")
	ContentPattern string // Glob below ContentDir (default "blog/**/*.mdx")
	SlugPrefix     string // Stripped from flattened paths (default "blog/")

	GitHubToken   string        // Optional; raises the star API quota
	GitHubOwner   string        // Owner for project repos given without one
	GitHubBaseURL string        // Override for tests and GitHub Enterprise
	StarTimeout   time.Duration // Budget for all star fetches of one page (default 2s)

	MetricsEnabled bool // Serve /metrics (default true)
	Watch          bool // Reload content on change

	OGRateLimit  int           // og.png renders per window per IP (default 30)
	OGRateWindow time.Duration // (default 1min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Author == "" {
		c.Author = c.Name
	}
	if c.Env == "" {
		c.Env = ModeProduction
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/portfolio.db"
	}
	if c.ProfilePath == "" {
		c.ProfilePath = "site/site.yaml"
	}
	if c.ContentDir == "" {
		c.ContentDir = "site/content"
	}
	if c.ContentPattern == "" {
		c.ContentPattern = content.DefaultPattern
	}
	if c.SlugPrefix == "" {
		c.SlugPrefix = content.DefaultSlugPrefix
	}
	if c.StarTimeout == 0 {
		c.StarTimeout = 2 * time.Second
	}
	if c.OGRateLimit == 0 {
		c.OGRateLimit = 30
	}
	if c.OGRateWindow == 0 {
		c.OGRateWindow = time.Minute
	}
}

// IncludeDrafts reports whether drafts appear in listings, the feed and
// the sitemap.
func (c SiteConfig) IncludeDrafts() bool {
	return c.Env != ModeProduction
}

func (c SiteConfig) validate() error {
	switch c.Env {
	case ModeProduction, ModeDevelopment:
	default:
		return fmt.Errorf("portfolio: SITE_ENV must be %q or %q, got %q", ModeProduction, ModeDevelopment, c.Env)
	}
	return nil
}

// LoadSiteConfig reads configuration from the environment after loading an
// optional .env file from the working directory.
func LoadSiteConfig() (SiteConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return SiteConfig{}, fmt.Errorf("portfolio: load .env: %w", err)
	}
	metrics, err := strconv.ParseBool(EnvOr("METRICS_ENABLED", "true"))
	if err != nil {
		return SiteConfig{}, fmt.Errorf("portfolio: METRICS_ENABLED: %w", err)
	}
	cfg := SiteConfig{
		Name:           os.Getenv("SITE_NAME"),
		URL:            os.Getenv("SITE_URL"),
		Description:    os.Getenv("SITE_DESCRIPTION"),
		Author:         os.Getenv("SITE_AUTHOR"),
		Env:            EnvOr("SITE_ENV", ModeProduction),
		Addr:           os.Getenv("ADDR"),
		DatabasePath:   os.Getenv("DATABASE_PATH"),
		ProfilePath:    os.Getenv("PROFILE_PATH"),
		ContentDir:     os.Getenv("CONTENT_DIR"),
		ContentPattern: os.Getenv("CONTENT_PATTERN"),
		SlugPrefix:     os.Getenv("SLUG_PREFIX"),
		GitHubToken:    os.Getenv("GITHUB_TOKEN"),
		GitHubOwner:    os.Getenv("GITHUB_OWNER"),
		MetricsEnabled: metrics,
	}
	cfg.setDefaults()
	return cfg, cfg.validate()
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger sets the logger used outside of request handling.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithProfile supplies the profile directly instead of reading ProfilePath.
func WithProfile(p Profile) Option {
	return func(a *App) {
		a.Profile = p
		a.profileSet = true
	}
}

// WithContentFS loads content from fsys instead of ContentDir. The dev
// watcher is disabled for such apps.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}

// WithRegistry sets the Prometheus registry metrics are registered with.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(a *App) {
		a.registry = reg
	}
}
