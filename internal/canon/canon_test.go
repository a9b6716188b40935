package canon

import (
	"net/url"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		href   string
		base   string
		want   string
		wantOk bool
	}{
		{
			name:   "relative path from root",
			href:   "/about",
			base:   "https://example.com/page",
			want:   "https://example.com/about",
			wantOk: true,
		},
		{
			name:   "strip fragment",
			href:   "https://example.com/page#section",
			want:   "https://example.com/page",
			wantOk: true,
		},
		{
			name:   "lowercase scheme and host",
			href:   "HTTPS://EXAMPLE.COM/Page",
			want:   "https://example.com/Page",
			wantOk: true,
		},
		{
			name:   "strip default http port",
			href:   "http://example.com:80/x",
			want:   "http://example.com/x",
			wantOk: true,
		},
		{
			name:   "strip default https port",
			href:   "https://example.com:443/x",
			want:   "https://example.com/x",
			wantOk: true,
		},
		{
			name:   "keep non-default port",
			href:   "http://example.com:8080/x",
			want:   "http://example.com:8080/x",
			wantOk: true,
		},
		{
			name:   "empty path becomes root",
			href:   "https://example.com",
			want:   "https://example.com/",
			wantOk: true,
		},
		{
			name:   "trailing slash stripped when path longer than root",
			href:   "https://example.com/dir/",
			want:   "https://example.com/dir",
			wantOk: true,
		},
		{
			name:   "root slash preserved",
			href:   "https://example.com/",
			want:   "https://example.com/",
			wantOk: true,
		},
		{
			name:   "query string preserved verbatim",
			href:   "https://example.com/search?q=a&b=2",
			want:   "https://example.com/search?q=a&b=2",
			wantOk: true,
		},
		{
			name:   "rejects ftp scheme",
			href:   "ftp://example.com/file",
			wantOk: false,
		},
		{
			name:   "rejects missing host",
			href:   "https:///path",
			wantOk: false,
		},
		{
			name:   "rejects unparsable url",
			href:   "http://[::1",
			wantOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var base *url.URL
			if tt.base != "" {
				var err error
				base, err = url.Parse(tt.base)
				if err != nil {
					t.Fatalf("bad test base: %v", err)
				}
			}
			got, ok := Normalize(tt.href, base)
			if ok != tt.wantOk {
				t.Fatalf("Normalize(%q) ok = %v, want %v", tt.href, ok, tt.wantOk)
			}
			if ok && got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

// TestNormalize_Idempotent is property P4: Normalize(Normalize(u)) == Normalize(u).
func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"HTTP://Example.COM:80/Path/To/Page/#frag?x=1",
		"https://example.com/a/b/c/",
		"https://example.com",
		"https://example.com:443/x?y=1#z",
	}
	for _, in := range inputs {
		first, ok := Normalize(in, nil)
		if !ok {
			continue
		}
		second, ok := Normalize(first, nil)
		if !ok {
			t.Fatalf("second Normalize of canonical output failed for %q", first)
		}
		if first != second {
			t.Errorf("Normalize not idempotent: Normalize(%q) = %q, Normalize(that) = %q", in, first, second)
		}
	}
}

func TestExtractLinks(t *testing.T) {
	html := []byte(`
		<html><body>
			<a href="/about">About</a>
			<a href="/about">dup</a>
			<a href='https://example.com/about'>About again</a>
			<a href="javascript:void(0)">no</a>
			<a href="mailto:a@b.com">no</a>
			<a href="#top">no</a>
			<a href="https://other.test/page?x=1">cross site</a>
		</body></html>
	`)

	links := ExtractLinks(html, "https://example.com/start")

	want := map[string]bool{
		"https://example.com/about":   false,
		"https://other.test/page?x=1": false,
	}
	if len(links) != len(want) {
		t.Fatalf("ExtractLinks returned %d links, want %d: %v", len(links), len(want), links)
	}
	for _, l := range links {
		if _, ok := want[l]; !ok {
			t.Errorf("unexpected link %q", l)
		}
	}
}

func TestDomain(t *testing.T) {
	if got := Domain("https://Example.COM/path"); got != "example.com" {
		t.Errorf("Domain = %q, want example.com", got)
	}
}

func TestOrigin(t *testing.T) {
	origin, ok := Origin("https://example.com:8080/a/b")
	if !ok || origin != "https://example.com:8080" {
		t.Errorf("Origin = %q, %v, want https://example.com:8080, true", origin, ok)
	}
}
