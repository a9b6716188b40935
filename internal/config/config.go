// Package config defines the crawler's external configuration surface:
// one Config struct carrying every option from spec.md §6, with the
// documented defaults applied by Default().
package config

import "time"

// Config holds every recognized crawler option. Fields are exported (and
// deliberately plain slices, not unexported+accessor pairs) since Config
// is threaded explicitly into admission, robots, fetch, and frontier
// construction rather than read through package-level getters.
type Config struct {
	MaxDepth            int           `json:"maxDepth,omitempty"`
	CrawlDelay          time.Duration `json:"crawlDelay,omitempty"`
	RequestTimeout      time.Duration `json:"requestTimeout,omitempty"`
	MaxURLsPerDomain    int           `json:"maxUrlsPerDomain,omitempty"`
	UserAgent           string        `json:"userAgent,omitempty"`
	VerifySSL           bool          `json:"verifySsl,omitempty"`
	MaxRedirects        int           `json:"maxRedirects,omitempty"`
	RespectRobotsTxt    bool          `json:"respectRobotsTxt,omitempty"`
	RobotsCacheDuration time.Duration `json:"robotsCacheDuration,omitempty"`
	AllowedSchemes      []string      `json:"allowedSchemes,omitempty"`
	BlockedExtensions   []string      `json:"blockedExtensions,omitempty"`
	MaxURLLength        int           `json:"maxUrlLength,omitempty"`
	BlockedDomains      []string      `json:"blockedDomains,omitempty"`
	DatabasePath        string        `json:"databasePath,omitempty"`
	URLsFile            string        `json:"urlsFile,omitempty"`
	NumWorkers          int           `json:"numWorkers,omitempty"`
}

// Default returns the configuration with every spec.md §6 default
// applied. RespectRobotsTxt defaults true; VerifySSL defaults false,
// matching the reference implementation's defaults exactly (an unusual
// but intentional pairing the spec preserves unchanged).
func Default() Config {
	return Config{
		MaxDepth:            2,
		CrawlDelay:          time.Second,
		RequestTimeout:      10 * time.Second,
		MaxURLsPerDomain:    50,
		UserAgent:           "Mozilla/5.0 (compatible; ParallelCrawler/1.0)",
		VerifySSL:           false,
		MaxRedirects:        5,
		RespectRobotsTxt:    true,
		RobotsCacheDuration: time.Hour,
		AllowedSchemes:      []string{"http", "https"},
		MaxURLLength:        2000,
		NumWorkers:          4,
	}
}
