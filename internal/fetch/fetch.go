// Package fetch implements the Fetcher component: a single HTTP GET with
// timeout, redirect limit, SSL verification toggle, and retry on
// transient 5xx statuses.
package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cametumbling/distcrawler/internal/retry"
)

// Config configures a Fetcher. A zero MaxBodySize falls back to 10 MiB in
// New; the other fields are used as given.
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	MaxRedirects int
	VerifySSL    bool
	MaxBodySize  int64
}

// Result is what a successful fetch returns: the response bytes, the
// Content-Type header, and the final URL after redirects.
type Result struct {
	Body        []byte
	ContentType string
	FinalURL    string
}

// Error is returned by Fetch on any transport failure, non-2xx status
// after retries, or exceeded redirect limit. It always maps to the
// CrawlResult status request_error.
type Error struct {
	URL        string
	StatusCode int // 0 if no response was received at all
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request error fetching %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request error fetching %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// retryableStatuses are retried per spec.md §4.4.
var retryableStatuses = map[int]bool{500: true, 502: true, 503: true, 504: true}

// Fetcher performs GETs according to Config. It is safe for concurrent
// use by multiple workers: it holds no worker-local state, and the
// Coordinator shares one instance across all of them.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// New builds a Fetcher from cfg.
func New(cfg Config) *Fetcher {
	maxBody := cfg.MaxBodySize
	if maxBody <= 0 {
		maxBody = 10 * 1024 * 1024
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.VerifySSL},
	}

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
			}
			return nil
		},
	}

	return &Fetcher{
		client:    client,
		userAgent: cfg.UserAgent,
		maxBody:   maxBody,
	}
}

// Fetch issues a GET to rawURL, making up to retry.DefaultMaxAttempts
// attempts in total (with exponential backoff between them) when the
// response status is in {500,502,503,504}. 4xx responses are never retried.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Result, error) {
	result, err := retry.Do(ctx, retry.DefaultMaxAttempts, retry.DefaultInitialDelay,
		func() (Result, error) {
			return f.doOnce(ctx, rawURL)
		},
		func(err error) bool {
			var fe *Error
			if errors.As(err, &fe) {
				return retryableStatuses[fe.StatusCode]
			}
			return false
		},
	)
	return result, err
}

func (f *Fetcher) doOnce(ctx context.Context, rawURL string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{}, &Error{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, &Error{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, &Error{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return Result{}, &Error{URL: rawURL, Err: err}
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return Result{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    finalURL,
	}, nil
}
