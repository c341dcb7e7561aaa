// Package stars reads repository star counts from the GitHub REST API.
//
// Every Count is a single GET with no retry and no cache. A local token
// bucket keeps callers under the unauthenticated quota and fails fast
// instead of queueing.
package stars

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single API call.
	DefaultTimeout = 5 * time.Second

	// unauthenticated quota is 60/hour, authenticated 5000/hour
	anonymousRate = rate.Limit(60.0 / 3600)
	tokenRate     = rate.Limit(5000.0 / 3600)
	burst         = 10

	maxConcurrent = 4
)

var (
	// ErrUpstream wraps every failure to obtain a count.
	ErrUpstream = errors.New("stars: upstream failure")
	// ErrThrottled means the local bucket or GitHub's own quota is exhausted.
	ErrThrottled = errors.New("stars: throttled")
)

// Result labels passed to Recorder.
const (
	ResultSuccess   = "success"
	ResultFailure   = "failure"
	ResultThrottled = "throttled"
)

// Recorder observes fetch outcomes.
type Recorder interface {
	IncStarFetch(result string)
}

type noopRecorder struct{}

func (noopRecorder) IncStarFetch(string) {}

// Config configures a Client. The zero value talks to api.github.com
// without a token.
type Config struct {
	Token    string
	BaseURL  string
	Timeout  time.Duration
	Logger   *slog.Logger
	Recorder Recorder
}

// Client fetches star counts.
type Client struct {
	gh       *gh.Client
	bucket   *rate.Limiter
	logger   *slog.Logger
	recorder Recorder

	mu        sync.Mutex
	remaining int
	resetAt   time.Time
}

// New builds a Client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Recorder == nil {
		cfg.Recorder = noopRecorder{}
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	limit := anonymousRate
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = cfg.Timeout
		limit = tokenRate
	}

	client := gh.NewClient(httpClient)
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("stars: parse base url: %w", err)
		}
		client.BaseURL = u
	}

	return &Client{
		gh:        client,
		bucket:    rate.NewLimiter(limit, burst),
		logger:    cfg.Logger,
		recorder:  cfg.Recorder,
		remaining: -1,
	}, nil
}

// Count returns the stargazer count of owner/repo.
func (c *Client) Count(ctx context.Context, owner, repo string) (int, error) {
	if !c.allow() {
		c.recorder.IncStarFetch(ResultThrottled)
		return 0, fmt.Errorf("%w: %w", ErrUpstream, ErrThrottled)
	}

	r, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	c.updateFromResponse(resp)
	if err != nil {
		err = wrapError(err, owner, repo)
		if errors.Is(err, ErrThrottled) {
			c.recorder.IncStarFetch(ResultThrottled)
		} else {
			c.recorder.IncStarFetch(ResultFailure)
		}
		return 0, err
	}
	c.recorder.IncStarFetch(ResultSuccess)
	return r.GetStargazersCount(), nil
}

// CountAll fetches counts for "owner/repo" references concurrently. Failed,
// malformed and zero results are left out of the map; the widget renders
// nothing for them.
func (c *Client) CountAll(ctx context.Context, repos []string) map[string]int {
	var (
		mu  sync.Mutex
		out = make(map[string]int, len(repos))
		g   errgroup.Group
	)
	g.SetLimit(maxConcurrent)
	for _, full := range repos {
		owner, name, ok := ParseRepo(full)
		if !ok {
			continue
		}
		g.Go(func() error {
			n, err := c.Count(ctx, owner, name)
			if err != nil {
				c.logger.Debug("star count unavailable", "repo", full, "error", err)
				return nil
			}
			if n > 0 {
				mu.Lock()
				out[full] = n
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// ParseRepo splits "owner/repo".
func ParseRepo(full string) (owner, repo string, ok bool) {
	owner, repo, ok = strings.Cut(strings.TrimSpace(full), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", false
	}
	return owner, repo, true
}

func (c *Client) allow() bool {
	c.mu.Lock()
	exhausted := c.remaining == 0 && time.Now().Before(c.resetAt)
	c.mu.Unlock()
	if exhausted {
		return false
	}
	return c.bucket.Allow()
}

func (c *Client) updateFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	if resp.Header.Get("X-RateLimit-Remaining") == "" {
		return
	}
	c.mu.Lock()
	c.remaining = resp.Rate.Remaining
	c.resetAt = resp.Rate.Reset.Time
	c.mu.Unlock()
}

func wrapError(err error, owner, repo string) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: %w: %s/%s", ErrUpstream, ErrThrottled, owner, repo)
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %w: %s/%s", ErrUpstream, ErrThrottled, owner, repo)
	}
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return fmt.Errorf("%w: get %s/%s: status %d: %s", ErrUpstream, owner, repo, ghErr.Response.StatusCode, ghErr.Message)
	}
	return fmt.Errorf("%w: get %s/%s: %w", ErrUpstream, owner, repo, err)
}
