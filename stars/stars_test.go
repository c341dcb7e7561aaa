package stars

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) IncStarFetch(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[result]++
}

func newTestClient(t *testing.T, handler http.HandlerFunc, rec Recorder) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL, Recorder: rec})
	require.NoError(t, err)
	return c
}

func TestCountReturnsStargazers(t *testing.T) {
	var gotPath, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name":"portfolio","stargazers_count":42}`)
	}, nil)

	n, err := c.Count(context.Background(), "octo", "portfolio")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.Equal(t, "/repos/octo/portfolio", gotPath)
	assert.Empty(t, gotAuth)
}

func TestCountSendsTokenWhenConfigured(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"stargazers_count":1}`)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Token: "secret"})
	require.NoError(t, err)
	_, err = c.Count(context.Background(), "octo", "repo")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestCountWrapsUpstreamErrors(t *testing.T) {
	rec := &countingRecorder{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	}, rec)

	_, err := c.Count(context.Background(), "octo", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.NotErrorIs(t, err, ErrThrottled)
	assert.Equal(t, 1, rec.counts[ResultFailure])
}

func TestCountReportsGitHubRateLimit(t *testing.T) {
	reset := strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", reset)
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
	}, nil)

	_, err := c.Count(context.Background(), "octo", "repo")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, ErrThrottled)

	_, err = c.Count(context.Background(), "octo", "repo")
	assert.ErrorIs(t, err, ErrThrottled)
	assert.Equal(t, int32(1), calls.Load(), "exhausted quota should not reach the server")
}

func TestCountFailsFastWhenBucketIsEmpty(t *testing.T) {
	rec := &countingRecorder{}
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"stargazers_count":3}`)
	}, rec)

	for i := 0; i < burst; i++ {
		_, err := c.Count(context.Background(), "octo", "repo")
		require.NoError(t, err)
	}
	_, err := c.Count(context.Background(), "octo", "repo")
	assert.ErrorIs(t, err, ErrThrottled)
	assert.Equal(t, int32(burst), calls.Load())
	assert.Equal(t, burst, rec.counts[ResultSuccess])
	assert.Equal(t, 1, rec.counts[ResultThrottled])
}

func TestCountHonorsContextCancellation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Count(ctx, "octo", "slow")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCountAllDropsFailuresAndZeros(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/octo/popular":
			fmt.Fprint(w, `{"stargazers_count":120}`)
		case "/repos/octo/new":
			fmt.Fprint(w, `{"stargazers_count":0}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}, nil)

	got := c.CountAll(context.Background(), []string{"octo/popular", "octo/new", "octo/broken", "not-a-repo"})
	assert.Equal(t, map[string]int{"octo/popular": 120}, got)
}

func TestParseRepo(t *testing.T) {
	tests := []struct {
		in          string
		owner, repo string
		ok          bool
	}{
		{"octo/repo", "octo", "repo", true},
		{" octo/repo ", "octo", "repo", true},
		{"octo", "", "", false},
		{"/repo", "", "", false},
		{"octo/", "", "", false},
		{"a/b/c", "", "", false},
	}
	for _, tt := range tests {
		owner, repo, ok := ParseRepo(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.owner, owner, tt.in)
		assert.Equal(t, tt.repo, repo, tt.in)
	}
}
