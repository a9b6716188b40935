package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cametumbling/distcrawler/internal/admission"
	"github.com/cametumbling/distcrawler/internal/canon"
	"github.com/cametumbling/distcrawler/internal/config"
	"github.com/cametumbling/distcrawler/internal/crawler"
	"github.com/cametumbling/distcrawler/internal/fetch"
	"github.com/cametumbling/distcrawler/internal/frontier"
	"github.com/cametumbling/distcrawler/internal/logging"
	"github.com/cametumbling/distcrawler/internal/robots"
	"github.com/cametumbling/distcrawler/internal/seedfile"
	"github.com/cametumbling/distcrawler/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cfg := config.Default()
	var configPath string

	root := &cobra.Command{
		Use:   "crawler",
		Short: "A distributed breadth-first web crawler",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			loaded = mergeFlags(cmd, loaded, cfg)
			return runCrawl(loaded)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON config file")
	root.Flags().IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "maximum link depth to follow")
	root.Flags().DurationVar(&cfg.CrawlDelay, "crawl-delay", cfg.CrawlDelay, "minimum per-worker per-domain spacing between fetches")
	root.Flags().DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "per-request timeout")
	root.Flags().IntVar(&cfg.MaxURLsPerDomain, "max-urls-per-domain", cfg.MaxURLsPerDomain, "per-domain admission quota")
	root.Flags().StringVar(&cfg.UserAgent, "user-agent", cfg.UserAgent, "User-Agent header and robots.txt matching token")
	root.Flags().BoolVar(&cfg.VerifySSL, "verify-ssl", cfg.VerifySSL, "verify TLS certificates")
	root.Flags().IntVar(&cfg.MaxRedirects, "max-redirects", cfg.MaxRedirects, "maximum redirects to follow per fetch")
	root.Flags().BoolVar(&cfg.RespectRobotsTxt, "respect-robots-txt", cfg.RespectRobotsTxt, "honor robots.txt")
	root.Flags().DurationVar(&cfg.RobotsCacheDuration, "robots-cache-duration", cfg.RobotsCacheDuration, "advisory robots.txt cache TTL (cache is process-lifetime regardless)")
	root.Flags().StringSliceVar(&cfg.AllowedSchemes, "allowed-schemes", cfg.AllowedSchemes, "schemes eligible for admission")
	root.Flags().StringSliceVar(&cfg.BlockedExtensions, "blocked-extensions", cfg.BlockedExtensions, "path extensions rejected by the admission filter")
	root.Flags().IntVar(&cfg.MaxURLLength, "max-url-length", cfg.MaxURLLength, "maximum admitted URL length")
	root.Flags().StringSliceVar(&cfg.BlockedDomains, "blocked-domains", cfg.BlockedDomains, "domains to never admit")
	root.Flags().StringVar(&cfg.DatabasePath, "database-path", "crawl.db", "path to the SQLite results database")
	root.Flags().StringVar(&cfg.URLsFile, "urls-file", "", "path to the seed URL file (required)")
	root.Flags().IntVar(&cfg.NumWorkers, "workers", cfg.NumWorkers, "number of worker goroutines")

	root.AddCommand(exportCmd(&cfg), pruneCmd(&cfg))
	return root
}

// mergeFlags copies every flag the user explicitly set from flagCfg onto
// loaded, leaving config-file/default values alone otherwise. This keeps
// precedence as: explicit flag > config file > built-in default.
func mergeFlags(cmd *cobra.Command, loaded, flagCfg config.Config) config.Config {
	set := func(name string) bool { return cmd.Flags().Changed(name) }

	if set("max-depth") {
		loaded.MaxDepth = flagCfg.MaxDepth
	}
	if set("crawl-delay") {
		loaded.CrawlDelay = flagCfg.CrawlDelay
	}
	if set("request-timeout") {
		loaded.RequestTimeout = flagCfg.RequestTimeout
	}
	if set("max-urls-per-domain") {
		loaded.MaxURLsPerDomain = flagCfg.MaxURLsPerDomain
	}
	if set("user-agent") {
		loaded.UserAgent = flagCfg.UserAgent
	}
	if set("verify-ssl") {
		loaded.VerifySSL = flagCfg.VerifySSL
	}
	if set("max-redirects") {
		loaded.MaxRedirects = flagCfg.MaxRedirects
	}
	if set("respect-robots-txt") {
		loaded.RespectRobotsTxt = flagCfg.RespectRobotsTxt
	}
	if set("robots-cache-duration") {
		loaded.RobotsCacheDuration = flagCfg.RobotsCacheDuration
	}
	if set("allowed-schemes") {
		loaded.AllowedSchemes = flagCfg.AllowedSchemes
	}
	if set("blocked-extensions") {
		loaded.BlockedExtensions = flagCfg.BlockedExtensions
	}
	if set("max-url-length") {
		loaded.MaxURLLength = flagCfg.MaxURLLength
	}
	if set("blocked-domains") {
		loaded.BlockedDomains = flagCfg.BlockedDomains
	}
	// The database-path flag's default also applies when the config file
	// names no database.
	if set("database-path") || loaded.DatabasePath == "" {
		loaded.DatabasePath = flagCfg.DatabasePath
	}
	if set("urls-file") {
		loaded.URLsFile = flagCfg.URLsFile
	}
	if set("workers") {
		loaded.NumWorkers = flagCfg.NumWorkers
	}
	return loaded
}

func runCrawl(cfg config.Config) error {
	if cfg.URLsFile == "" {
		return fmt.Errorf("--urls-file is required")
	}

	seeds, err := seedfile.Read(cfg.URLsFile)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}
	defer db.Close()

	canonicalSeeds := make([]string, 0, len(seeds))
	for _, raw := range seeds {
		if canonical, ok := canon.NormalizeString(raw, ""); ok {
			canonicalSeeds = append(canonicalSeeds, canonical)
		}
	}

	filter := admission.New(admission.Config{
		AllowedSchemes:    cfg.AllowedSchemes,
		BlockedExtensions: cfg.BlockedExtensions,
		MaxURLLength:      cfg.MaxURLLength,
		BlockedDomains:    cfg.BlockedDomains,
	})
	fr := frontier.New(cfg.MaxURLsPerDomain, filter)

	logger := logging.New(os.Stderr)

	coordCfg := crawler.CoordinatorConfig{
		NumWorkers: cfg.NumWorkers,
		MaxDepth:   cfg.MaxDepth,
		WorkerConfig: crawler.WorkerConfig{
			Fetcher: fetch.New(fetch.Config{
				Timeout:      cfg.RequestTimeout,
				UserAgent:    cfg.UserAgent,
				MaxRedirects: cfg.MaxRedirects,
				VerifySSL:    cfg.VerifySSL,
			}),
			Filter:           filter,
			Robots:           robots.NewWithTimeout(cfg.RequestTimeout, cfg.UserAgent),
			RespectRobotsTxt: cfg.RespectRobotsTxt,
			CrawlDelay:       cfg.CrawlDelay,
			MaxDepth:         cfg.MaxDepth,
			UserAgent:        cfg.UserAgent,
		},
		Store:        db,
		Logger:       logger,
		DrainTimeout: 10 * time.Second,
		DatabasePath: cfg.DatabasePath,
	}
	coordinator := crawler.NewCoordinator(coordCfg, fr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() { errCh <- coordinator.Run(ctx, canonicalSeeds) }()

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		cancel()
		return <-errCh
	}
}

func exportCmd(cfg *config.Config) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the crawled_urls table to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()
			return db.ExportCSV(out)
		},
	}
	cmd.Flags().StringVar(&out, "out", "crawl.csv", "output CSV path")
	return cmd
}

func pruneCmd(cfg *config.Config) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete crawled_urls rows older than a given duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()
			removed, err := db.PruneOlderThan(olderThan)
			if err != nil {
				return err
			}
			fmt.Printf("removed %d entries\n", removed)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age threshold")
	return cmd
}
