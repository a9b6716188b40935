// Package admission implements the Admission Filter: a pure predicate
// deciding whether a canonical URL is eligible to be fetched at all, before
// any network I/O or frontier bookkeeping happens.
package admission

import (
	"net/url"
	"path"
	"strings"
)

// DefaultAllowedSchemes matches spec.md's default scheme allowlist.
var DefaultAllowedSchemes = []string{"http", "https"}

// DefaultBlockedExtensions matches the binary/media set from
// original_source/src/config.py's CrawlerConfig.blocked_extensions.
var DefaultBlockedExtensions = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".zip", ".rar", ".7z", ".tar", ".gz",
	".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".ico",
	".mp3", ".mp4", ".wav", ".avi", ".mov", ".wmv",
	".exe", ".msi", ".deb", ".rpm", ".dmg",
}

// DefaultMaxURLLength matches spec.md's default of 2000.
const DefaultMaxURLLength = 2000

// Filter is the Admission Filter, configured once and reused for every
// IsAllowed call. It holds no mutable state.
type Filter struct {
	allowedSchemes    map[string]struct{}
	blockedExtensions []string
	allowedExtensions map[string]struct{}
	maxURLLength      int
	blockedDomains    map[string]struct{}
}

// Config carries the admission rules; zero values fall back to spec
// defaults in New.
type Config struct {
	AllowedSchemes    []string
	BlockedExtensions []string
	// AllowedExtensions, when non-empty, additionally restricts eligible
	// URLs to those ending in one of these extensions (or having none).
	AllowedExtensions []string
	MaxURLLength      int
	BlockedDomains    []string
}

// New builds a Filter from cfg, applying spec defaults for zero-value
// fields.
func New(cfg Config) *Filter {
	schemes := cfg.AllowedSchemes
	if len(schemes) == 0 {
		schemes = DefaultAllowedSchemes
	}
	blocked := cfg.BlockedExtensions
	if blocked == nil {
		blocked = DefaultBlockedExtensions
	}
	maxLen := cfg.MaxURLLength
	if maxLen == 0 {
		maxLen = DefaultMaxURLLength
	}

	f := &Filter{
		allowedSchemes:    toSet(schemes),
		blockedExtensions: lowerAll(blocked),
		maxURLLength:      maxLen,
		blockedDomains:    toSet(cfg.BlockedDomains),
	}
	if len(cfg.AllowedExtensions) > 0 {
		f.allowedExtensions = toSet(lowerAll(cfg.AllowedExtensions))
	}
	return f
}

// IsAllowed reports whether canonicalURL is eligible for fetching.
func (f *Filter) IsAllowed(canonicalURL string) bool {
	if len(canonicalURL) > f.maxURLLength {
		return false
	}

	u, err := url.Parse(canonicalURL)
	if err != nil {
		return false
	}

	if _, ok := f.allowedSchemes[strings.ToLower(u.Scheme)]; !ok {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if _, blocked := f.blockedDomains[host]; blocked {
		return false
	}

	lowerPath := strings.ToLower(u.Path)
	for _, ext := range f.blockedExtensions {
		if strings.HasSuffix(lowerPath, ext) {
			return false
		}
	}

	if f.allowedExtensions != nil {
		ext := strings.ToLower(path.Ext(lowerPath))
		if ext != "" {
			if _, ok := f.allowedExtensions[ext]; !ok {
				return false
			}
		}
	}

	return true
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
