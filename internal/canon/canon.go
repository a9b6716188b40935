// Package canon normalizes URLs into a canonical form and extracts
// outbound links from HTML bytes. Every function here is pure: no network
// I/O, no shared state.
package canon

import (
	"net/url"
	"regexp"
	"strings"
)

// hrefPattern matches href="..." or href='...' attribute values,
// case-insensitively, anywhere in the document. A regex scan is used
// instead of a DOM walk so that malformed HTML still yields its links
// (see design notes on link extraction).
var hrefPattern = regexp.MustCompile(`(?i)href\s*=\s*["']([^"']*)["']`)

// skippedSchemes are href prefixes that are never worth resolving.
var skippedSchemes = []string{
	"javascript:", "mailto:", "tel:", "ftp:", "file:", "data:", "blob:", "#",
}

// Normalize resolves url against base (if provided and url is relative),
// validates the result, and returns the canonical string form plus true.
// It returns "", false if the URL cannot be parsed, lacks an http(s)
// scheme, or has an empty host.
//
// Two inputs that differ only in scheme case, host case, default port, a
// trailing slash, or a fragment normalize to byte-identical output; this
// is the dedup key used throughout the crawler.
func Normalize(rawURL string, base *url.URL) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}

	abs := ref
	if base != nil {
		abs = base.ResolveReference(ref)
	}

	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	if abs.Host == "" {
		return "", false
	}

	abs.Scheme = strings.ToLower(abs.Scheme)
	abs.Host = strings.ToLower(abs.Host)

	if abs.Scheme == "http" {
		abs.Host = strings.TrimSuffix(abs.Host, ":80")
	}
	if abs.Scheme == "https" {
		abs.Host = strings.TrimSuffix(abs.Host, ":443")
	}

	if abs.Path == "" {
		abs.Path = "/"
	} else if len(abs.Path) > 1 && strings.HasSuffix(abs.Path, "/") {
		abs.Path = strings.TrimSuffix(abs.Path, "/")
		if abs.Path == "" {
			abs.Path = "/"
		}
	}

	abs.Fragment = ""

	return abs.String(), true
}

// NormalizeString is a convenience wrapper for Normalize when base is
// itself a raw URL string rather than a parsed *url.URL.
func NormalizeString(rawURL, baseURL string) (string, bool) {
	if baseURL == "" {
		return Normalize(rawURL, nil)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", false
	}
	return Normalize(rawURL, base)
}

// ExtractLinks scans htmlBytes for href attribute values and returns the
// set of distinct canonical URLs resolved against baseURL. Hrefs using a
// skipped scheme (javascript:, mailto:, tel:, ftp:, file:, data:, blob:)
// or a bare fragment are discarded before normalization, matching the
// encounter order of the underlying regex scan.
func ExtractLinks(htmlBytes []byte, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	matches := hrefPattern.FindAllSubmatch(htmlBytes, -1)
	seen := make(map[string]struct{}, len(matches))
	var links []string

	for _, m := range matches {
		href := string(m[1])
		if isSkipped(href) {
			continue
		}
		canonical, ok := Normalize(href, base)
		if !ok {
			continue
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		links = append(links, canonical)
	}

	return links
}

func isSkipped(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	for _, prefix := range skippedSchemes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// Domain returns the lowercase hostname (without port) of a canonical URL,
// or "" if the URL cannot be parsed.
func Domain(canonicalURL string) string {
	u, err := url.Parse(canonicalURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// Origin returns "scheme://host[:port]" for a canonical URL, the key that
// robots.txt policies attach to.
func Origin(canonicalURL string) (string, bool) {
	u, err := url.Parse(canonicalURL)
	if err != nil {
		return "", false
	}
	if u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return u.Scheme + "://" + u.Host, true
}
