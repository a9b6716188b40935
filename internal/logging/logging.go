// Package logging provides the Coordinator's leveled event sink, built
// on zerolog. It renders the same per-result, progress, and final-report
// events as the reference implementation's logging calls, just through
// a structured logger instead of string-formatted log lines.
package logging

import (
	"io"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Sink wraps a zerolog.Logger with the handful of crawl-shaped events the
// Coordinator emits. It is safe for the Coordinator's single-writer use;
// it is not intended to be shared across goroutines.
type Sink struct {
	log zerolog.Logger
}

// New builds a Sink writing human-readable console output to w (typically
// os.Stderr, keeping stdout free for any piped consumer).
func New(w io.Writer) *Sink {
	if w == nil {
		w = os.Stderr
	}
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	logger := zerolog.New(console).With().Timestamp().Logger()
	return &Sink{log: logger}
}

// Result logs one completed job at INFO (success/blocked/robots_blocked)
// or WARN (request_error/parse_error).
func (s *Sink) Result(url, status, domain string, depth int, contentLength int) {
	event := s.log.Info()
	if status == "request_error" || status == "parse_error" {
		event = s.log.Warn()
	}
	event.
		Str("url", url).
		Str("status", status).
		Str("domain", domain).
		Int("depth", depth).
		Int("content_length", contentLength).
		Msg("crawled")
}

// Progress logs a periodic summary, intended to be called every 10
// completed results.
func (s *Sink) Progress(resultsReceived, urlsSent int) {
	s.log.Info().
		Int("results_received", resultsReceived).
		Int("urls_sent", urlsSent).
		Msg("progress")
}

// StoreWriteFailed logs a non-fatal persistence failure: the frontier
// still advances per the propagation policy, but the failure is surfaced.
func (s *Sink) StoreWriteFailed(url string, err error) {
	s.log.Error().Str("url", url).Err(err).Msg("store write failed")
}

// FinalStats is the end-of-run summary passed to Final.
type FinalStats struct {
	TotalCrawled  int
	Duration      time.Duration
	ByStatus      map[string]int
	ByDepth       map[int]int
	DomainCounts  map[string]int
	DatabasePath  string
}

// Final logs the end-of-run report: totals, per-status counts, per-depth
// counts, and the top-5 domains by the counts in stats.DomainCounts (the
// Coordinator fills it with results received per domain).
func (s *Sink) Final(stats FinalStats) {
	s.log.Info().Msg("crawling completed")
	rate := 0.0
	if stats.Duration.Seconds() > 0 {
		rate = float64(stats.TotalCrawled) / stats.Duration.Seconds()
	}
	s.log.Info().
		Int("total_urls", stats.TotalCrawled).
		Float64("duration_seconds", stats.Duration.Seconds()).
		Float64("rate_per_sec", rate).
		Msg("summary")

	for status, count := range stats.ByStatus {
		s.log.Info().Str("status", status).Int("count", count).Msg("by_status")
	}
	for depth, count := range stats.ByDepth {
		s.log.Info().Int("depth", depth).Int("count", count).Msg("by_depth")
	}

	for _, d := range topDomains(stats.DomainCounts, 5) {
		s.log.Info().Str("domain", d.domain).Int("count", d.count).Msg("top_domain")
	}

	if stats.DatabasePath != "" {
		s.log.Info().Str("path", stats.DatabasePath).Msg("results saved")
	}
}

type domainCount struct {
	domain string
	count  int
}

func topDomains(counts map[string]int, n int) []domainCount {
	all := make([]domainCount, 0, len(counts))
	for d, c := range counts {
		all = append(all, domainCount{domain: d, count: c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].domain < all[j].domain
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}
