package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/cametumbling/distcrawler/internal/admission"
	"github.com/cametumbling/distcrawler/internal/canon"
	"github.com/cametumbling/distcrawler/internal/fetch"
	"github.com/cametumbling/distcrawler/internal/pageparser"
	"github.com/cametumbling/distcrawler/internal/robots"
)

// WorkerConfig carries the pipeline dependencies and the pipeline knobs
// (max depth, robots enforcement, crawl delay). The Coordinator hands the
// same WorkerConfig, and so the same Fetcher and robots Cache, to every
// worker.
type WorkerConfig struct {
	Fetcher          *fetch.Fetcher
	Filter           *admission.Filter
	Robots           *robots.Cache
	RespectRobotsTxt bool
	CrawlDelay       time.Duration
	MaxDepth         int
	UserAgent        string
}

// worker runs the per-job pipeline until jobCh is closed or ctx is done,
// sending exactly one CrawlResult per received Job. A panic anywhere in
// the pipeline is recovered and still yields one result, preserving the
// Coordinator's "every dispatched job produces exactly one result"
// termination invariant.
func worker(ctx context.Context, jobCh <-chan Job, send func(CrawlResult), cfg WorkerConfig) {
	lastFetch := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobCh:
			if !ok {
				return
			}
			runJobSafely(ctx, job, send, cfg, lastFetch)
		}
	}
}

func runJobSafely(ctx context.Context, job Job, send func(CrawlResult), cfg WorkerConfig, lastFetch map[string]time.Time) {
	sent := false
	defer func() {
		if r := recover(); r != nil && !sent {
			send(CrawlResult{
				URL:          job.URL,
				Status:       StatusParseError,
				Depth:        job.Depth,
				Domain:       canon.Domain(job.URL),
				ErrorMessage: fmt.Sprintf("worker panic: %v", r),
				Timestamp:    now(),
			})
		}
	}()

	result := processJob(ctx, job, cfg, lastFetch)
	send(result)
	sent = true
}

// processJob runs the 8-step pipeline. It always returns, never panics
// under normal operation (panics are caught one level up by the caller).
func processJob(ctx context.Context, job Job, cfg WorkerConfig, lastFetch map[string]time.Time) CrawlResult {
	start := time.Now()
	domain := canon.Domain(job.URL)

	// Step 2: admission.
	if cfg.Filter != nil && !cfg.Filter.IsAllowed(job.URL) {
		return CrawlResult{
			URL: job.URL, Status: StatusBlocked, Depth: job.Depth, Domain: domain,
			ResponseTime: time.Since(start), Timestamp: now(),
		}
	}

	// Step 3: per-domain rate limit.
	if last, ok := lastFetch[domain]; ok {
		if elapsed := time.Since(last); elapsed < cfg.CrawlDelay {
			sleep(ctx, cfg.CrawlDelay-elapsed)
		}
	}
	lastFetch[domain] = time.Now()

	// Step 4: robots.
	if cfg.RespectRobotsTxt && cfg.Robots != nil {
		origin, ok := canon.Origin(job.URL)
		if ok && !cfg.Robots.IsAllowed(ctx, origin, job.URL) {
			return CrawlResult{
				URL: job.URL, Status: StatusRobotsBlocked, Depth: job.Depth, Domain: domain,
				ResponseTime: time.Since(start), Timestamp: now(),
			}
		}
	}

	// Step 5: fetch.
	fetched, err := cfg.Fetcher.Fetch(ctx, job.URL)
	if err != nil {
		return CrawlResult{
			URL: job.URL, Status: StatusRequestError, Depth: job.Depth, Domain: domain,
			ResponseTime: time.Since(start), ErrorMessage: err.Error(), Timestamp: now(),
		}
	}

	// Step 6: parse.
	page := pageparser.Parse(fetched.Body, fetched.ContentType, fetched.FinalURL)

	// Step 7: depth-filter discovered links.
	var links []string
	if job.Depth < cfg.MaxDepth {
		for _, link := range page.Links {
			if cfg.Filter == nil || cfg.Filter.IsAllowed(link) {
				links = append(links, link)
			}
		}
	}

	return CrawlResult{
		URL:           job.URL,
		Title:         page.Title,
		ContentLength: len(fetched.Body),
		Status:        StatusSuccess,
		Depth:         job.Depth,
		Domain:        domain,
		ResponseTime:  time.Since(start),
		Links:         links,
		Timestamp:     now(),
	}
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// now is a seam for tests; production always uses the wall clock.
var now = time.Now
