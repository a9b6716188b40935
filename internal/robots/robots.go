// Package robots implements the per-worker Robots Cache: fetch-and-parse
// of a given origin's robots.txt, memoized for the process lifetime.
//
// A Cache is safe for concurrent use. The Coordinator passes one Cache to
// every worker through the shared WorkerConfig, so cached policies are
// shared across workers rather than kept per worker.
package robots

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// entry is the cached verdict source for one origin. A nil data means
// "could not fetch or parse robots.txt for this origin" which, per
// spec.md §4.3, is cached as "allow all".
type entry struct {
	data *robotstxt.RobotsData
}

// Cache is the robots.txt cache. Its internal mutex makes it safe for use
// by several goroutines at once.
type Cache struct {
	mu        sync.Mutex
	origins   map[string]entry
	client    *http.Client
	userAgent string
}

// New creates a Cache that fetches robots.txt with the given HTTP client
// (its Timeout should already reflect the configured request timeout) and
// matches rules against the first whitespace-separated token of
// userAgent.
func New(client *http.Client, userAgent string) *Cache {
	return &Cache{
		origins:   make(map[string]entry),
		client:    client,
		userAgent: firstToken(userAgent),
	}
}

// IsAllowed looks up the caller-supplied origin (the origin of rawURL),
// fetching and caching its robots.txt on first use, and reports whether the configured user agent
// may fetch rawURL. Any fetch or parse failure is cached as "allow all".
func (c *Cache) IsAllowed(ctx context.Context, origin, rawURL string) bool {
	data := c.get(ctx, origin)
	if data == nil {
		return true
	}
	group := data.FindGroup(c.userAgent)
	return group.Test(requestPath(rawURL))
}

// requestPath extracts the path+query portion Group.Test expects; a
// malformed URL degrades to "/" so robots evaluation still proceeds.
func requestPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "/"
	}
	if u.RequestURI() == "" {
		return "/"
	}
	return u.RequestURI()
}

func (c *Cache) get(ctx context.Context, origin string) *robotstxt.RobotsData {
	c.mu.Lock()
	if e, ok := c.origins[origin]; ok {
		c.mu.Unlock()
		return e.data
	}
	c.mu.Unlock()

	data := c.fetch(ctx, origin)

	c.mu.Lock()
	c.origins[origin] = entry{data: data}
	c.mu.Unlock()

	return data
}

func (c *Cache) fetch(ctx context.Context, origin string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil
	}

	// A missing robots.txt (4xx/5xx) is treated the same as a fetch
	// failure: allow all. Only a successful body is parsed.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil
	}
	return data
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}
	return fields[0]
}

// Size reports the number of distinct origins currently cached. Exposed
// for tests and diagnostics only.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.origins)
}

// timeoutClient is a convenience constructor used by NewWithTimeout when
// no shared *http.Client is supplied.
func timeoutClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// NewWithTimeout creates a Cache with a dedicated *http.Client of the
// given timeout, for callers that don't want to share the main Fetcher's
// client with robots.txt fetches.
func NewWithTimeout(timeout time.Duration, userAgent string) *Cache {
	return New(timeoutClient(timeout), userAgent)
}
