package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load starts from Default() and overlays any fields present in the
// JSON file at path. A missing path is not an error: Load returns the
// defaults unchanged, matching the CLI's "config file is optional, flags
// and defaults otherwise" behavior.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var overlay Config
	if err := json.Unmarshal(data, &overlay); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	applyOverlay(&cfg, overlay)

	// RespectRobotsTxt defaults true, so a zero-value overlay copy can't
	// tell "file sets this false" apart from "file doesn't mention it."
	// A presence probe resolves the ambiguity without making the field
	// itself a pointer everywhere else in Config.
	var presence struct {
		RespectRobotsTxt *bool `json:"respectRobotsTxt"`
	}
	if err := json.Unmarshal(data, &presence); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	if presence.RespectRobotsTxt != nil {
		cfg.RespectRobotsTxt = *presence.RespectRobotsTxt
	}

	return cfg, nil
}

// applyOverlay copies every non-zero field of overlay onto cfg, except
// RespectRobotsTxt, which Load applies separately from a presence probe.
func applyOverlay(cfg *Config, overlay Config) {
	if overlay.MaxDepth != 0 {
		cfg.MaxDepth = overlay.MaxDepth
	}
	if overlay.CrawlDelay != 0 {
		cfg.CrawlDelay = overlay.CrawlDelay
	}
	if overlay.RequestTimeout != 0 {
		cfg.RequestTimeout = overlay.RequestTimeout
	}
	if overlay.MaxURLsPerDomain != 0 {
		cfg.MaxURLsPerDomain = overlay.MaxURLsPerDomain
	}
	if overlay.UserAgent != "" {
		cfg.UserAgent = overlay.UserAgent
	}
	if overlay.VerifySSL {
		cfg.VerifySSL = true
	}
	if overlay.MaxRedirects != 0 {
		cfg.MaxRedirects = overlay.MaxRedirects
	}
	if overlay.RobotsCacheDuration != 0 {
		cfg.RobotsCacheDuration = overlay.RobotsCacheDuration
	}
	if len(overlay.AllowedSchemes) > 0 {
		cfg.AllowedSchemes = overlay.AllowedSchemes
	}
	if len(overlay.BlockedExtensions) > 0 {
		cfg.BlockedExtensions = overlay.BlockedExtensions
	}
	if overlay.MaxURLLength != 0 {
		cfg.MaxURLLength = overlay.MaxURLLength
	}
	if len(overlay.BlockedDomains) > 0 {
		cfg.BlockedDomains = overlay.BlockedDomains
	}
	if overlay.DatabasePath != "" {
		cfg.DatabasePath = overlay.DatabasePath
	}
	if overlay.URLsFile != "" {
		cfg.URLsFile = overlay.URLsFile
	}
	if overlay.NumWorkers != 0 {
		cfg.NumWorkers = overlay.NumWorkers
	}
}
