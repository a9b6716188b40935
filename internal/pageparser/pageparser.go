// Package pageparser extracts a page's title and outbound links from a
// fetched response body. Title extraction walks the HTML token stream
// with golang.org/x/net/html; link extraction is delegated to
// internal/canon, which intentionally uses a regex scan rather than a
// full DOM walk (see canon package docs).
package pageparser

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/cametumbling/distcrawler/internal/canon"
)

const (
	// NoTitleFound is used when the document has no <title> element, or
	// the title is empty after whitespace collapsing.
	NoTitleFound = "No Title Found"

	maxTitleLength = 200
)

// Page is the result of parsing one fetched document.
type Page struct {
	Title string
	Links []string
}

// Parse extracts a title and links from body. contentType is the
// response's Content-Type header value (may include a charset
// parameter); non-HTML content yields a synthetic title and no links.
func Parse(body []byte, contentType, baseURL string) Page {
	if !isHTML(contentType) {
		return Page{Title: nonHTMLTitle(contentType)}
	}

	return Page{
		Title: extractTitle(body),
		Links: canon.ExtractLinks(body, baseURL),
	}
}

func isHTML(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "text/html")
}

func nonHTMLTitle(contentType string) string {
	ct := contentType
	if ct == "" {
		ct = "unknown"
	}
	return fmt.Sprintf("Non-HTML content (%s)", ct)
}

// extractTitle walks the token stream looking for the first <title>
// element's text content. Returns NoTitleFound if absent or blank.
func extractTitle(body []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))

	inTitle := false
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return NoTitleFound
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "title" {
				inTitle = false
			}
		case html.TextToken:
			if inTitle {
				text := strings.TrimSpace(collapseWhitespace(string(tokenizer.Text())))
				if text == "" {
					continue
				}
				return truncate(text, maxTitleLength)
			}
		}
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
