package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault_MatchesSpecDefaults(t *testing.T) {
	cfg := Default()

	cases := map[string]bool{
		"MaxDepth":         cfg.MaxDepth == 2,
		"CrawlDelay":       cfg.CrawlDelay == time.Second,
		"RequestTimeout":   cfg.RequestTimeout == 10*time.Second,
		"MaxURLsPerDomain": cfg.MaxURLsPerDomain == 50,
		"VerifySSL":        cfg.VerifySSL == false,
		"MaxRedirects":     cfg.MaxRedirects == 5,
		"RespectRobotsTxt": cfg.RespectRobotsTxt == true,
		"MaxURLLength":     cfg.MaxURLLength == 2000,
	}
	for name, ok := range cases {
		if !ok {
			t.Errorf("default %s did not match spec.md §6", name)
		}
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxDepth != Default().MaxDepth {
		t.Errorf("expected defaults when config file is missing")
	}
}

func TestLoad_OverlaysProvidedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawler.json")
	os.WriteFile(path, []byte(`{"maxDepth": 5, "userAgent": "CustomBot/1.0"}`), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxDepth != 5 {
		t.Errorf("MaxDepth = %d, want 5", cfg.MaxDepth)
	}
	if cfg.UserAgent != "CustomBot/1.0" {
		t.Errorf("UserAgent = %q, want CustomBot/1.0", cfg.UserAgent)
	}
	// Untouched fields keep their defaults.
	if cfg.MaxRedirects != Default().MaxRedirects {
		t.Errorf("MaxRedirects should be untouched by partial overlay")
	}
}

func TestLoad_RespectRobotsTxtExplicitFalseOverridesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawler.json")
	os.WriteFile(path, []byte(`{"respectRobotsTxt": false}`), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RespectRobotsTxt {
		t.Error("RespectRobotsTxt = true, want false (explicitly set in file)")
	}
}

func TestLoad_RespectRobotsTxtAbsentKeepsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawler.json")
	os.WriteFile(path, []byte(`{"maxDepth": 5}`), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.RespectRobotsTxt {
		t.Error("RespectRobotsTxt = false, want true (default, field absent from file)")
	}
}

func TestLoad_RespectRobotsTxtExplicitTrueMatchesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawler.json")
	os.WriteFile(path, []byte(`{"respectRobotsTxt": true}`), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.RespectRobotsTxt {
		t.Error("RespectRobotsTxt = false, want true")
	}
}
