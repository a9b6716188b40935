package admission

import "testing"

func TestIsAllowed_Defaults(t *testing.T) {
	f := New(Config{})

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"plain html page", "https://example.com/index.html", true},
		{"extensionless page", "https://example.com/about", true},
		{"blocked pdf", "https://example.com/file.pdf", false},
		{"blocked image", "https://example.com/logo.PNG", false},
		{"ftp scheme rejected", "ftp://example.com/file", false},
		{"too long url", "https://example.com/" + longPath(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.IsAllowed(tt.url); got != tt.want {
				t.Errorf("IsAllowed(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsAllowed_BlockedDomain(t *testing.T) {
	f := New(Config{BlockedDomains: []string{"blocked.test"}})

	if f.IsAllowed("https://blocked.test/page") {
		t.Error("expected blocked.test to be rejected")
	}
	if !f.IsAllowed("https://ok.test/page") {
		t.Error("expected ok.test to be allowed")
	}
}

func TestIsAllowed_AllowedExtensions(t *testing.T) {
	f := New(Config{AllowedExtensions: []string{".html"}})

	if !f.IsAllowed("https://example.com/page.html") {
		t.Error("expected .html page to be allowed")
	}
	if !f.IsAllowed("https://example.com/no-extension") {
		t.Error("expected extensionless page to be allowed")
	}
	if f.IsAllowed("https://example.com/page.php") {
		t.Error("expected .php page to be rejected when not in allow-list")
	}
}

func longPath() string {
	b := make([]byte, DefaultMaxURLLength)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
