// Package store implements the Result Store: a durable, process-local
// table of crawl outcomes and discovered-link edges, backed by SQLite
// via the pure-Go modernc.org/sqlite driver (no cgo toolchain needed).
package store

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cametumbling/distcrawler/internal/crawler"
)

const schema = `
CREATE TABLE IF NOT EXISTS crawled_urls (
	url            TEXT PRIMARY KEY,
	title          TEXT,
	content_length INTEGER DEFAULT 0,
	status         TEXT NOT NULL,
	depth          INTEGER DEFAULT 0,
	timestamp      DATETIME,
	domain         TEXT,
	response_time  REAL DEFAULT 0.0,
	error_message  TEXT
);
CREATE INDEX IF NOT EXISTS idx_crawled_urls_domain ON crawled_urls(domain);
CREATE INDEX IF NOT EXISTS idx_crawled_urls_status ON crawled_urls(status);
CREATE INDEX IF NOT EXISTS idx_crawled_urls_depth  ON crawled_urls(depth);

CREATE TABLE IF NOT EXISTS discovered_links (
	source_url    TEXT NOT NULL,
	target_url    TEXT NOT NULL,
	depth         INTEGER NOT NULL,
	discovered_at DATETIME,
	PRIMARY KEY (source_url, target_url)
);
CREATE INDEX IF NOT EXISTS idx_discovered_links_source ON discovered_links(source_url);
CREATE INDEX IF NOT EXISTS idx_discovered_links_target ON discovered_links(target_url);
`

// Store is the durable crawl-results table. Writes originate only from
// the Coordinator (single writer), matching the concurrency model; the
// *sql.DB connection pool is safe regardless.
type Store struct {
	db *sql.DB
}

// Open creates (or reuses) a SQLite database file at path and ensures
// its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single-writer model; avoid SQLITE_BUSY

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertResult upserts one CrawlResult keyed by URL.
func (s *Store) InsertResult(result crawler.CrawlResult) error {
	_, err := s.db.Exec(`
		INSERT INTO crawled_urls (url, title, content_length, status, depth, timestamp, domain, response_time, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			content_length = excluded.content_length,
			status = excluded.status,
			depth = excluded.depth,
			timestamp = excluded.timestamp,
			domain = excluded.domain,
			response_time = excluded.response_time,
			error_message = excluded.error_message
	`,
		result.URL, result.Title, result.ContentLength, string(result.Status), result.Depth,
		result.Timestamp, result.Domain, result.ResponseTime.Seconds(), result.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("insert result for %s: %w", result.URL, err)
	}
	return nil
}

// InsertEdges bulk-inserts (source, target, depth) edges in a single
// transaction. Duplicate (source_url, target_url) pairs are silently
// ignored.
func (s *Store) InsertEdges(source string, targets []string, depth int) error {
	if len(targets) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin edge transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO discovered_links (source_url, target_url, depth, discovered_at)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare edge insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, target := range targets {
		if _, err := stmt.Exec(source, target, depth, now); err != nil {
			return fmt.Errorf("insert edge %s -> %s: %w", source, target, err)
		}
	}

	return tx.Commit()
}

// Exists reports whether url already has a crawled_urls row.
func (s *Store) Exists(url string) (bool, error) {
	var found int
	err := s.db.QueryRow(`SELECT 1 FROM crawled_urls WHERE url = ?`, url).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check existence of %s: %w", url, err)
	}
	return true, nil
}

// Stats is the aggregate view returned by Stats().
type Stats struct {
	TotalCrawled         int
	TotalLinksDiscovered int
	ByStatus             map[string]int
	ByDepth              map[int]int
	TopDomains           map[string]int
}

// Stats computes totals, per-status counts, per-depth counts, and the
// top-10 domains by crawled count.
func (s *Store) Stats() (Stats, error) {
	stats := Stats{ByStatus: make(map[string]int), ByDepth: make(map[int]int), TopDomains: make(map[string]int)}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM crawled_urls`).Scan(&stats.TotalCrawled); err != nil {
		return stats, fmt.Errorf("count crawled_urls: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM discovered_links`).Scan(&stats.TotalLinksDiscovered); err != nil {
		return stats, fmt.Errorf("count discovered_links: %w", err)
	}

	if err := scanCounts(s.db, `SELECT status, COUNT(*) FROM crawled_urls GROUP BY status`, func(k string, v int) {
		stats.ByStatus[k] = v
	}); err != nil {
		return stats, err
	}

	rows, err := s.db.Query(`SELECT depth, COUNT(*) FROM crawled_urls GROUP BY depth ORDER BY depth`)
	if err != nil {
		return stats, fmt.Errorf("depth distribution: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var depth, count int
		if err := rows.Scan(&depth, &count); err != nil {
			return stats, err
		}
		stats.ByDepth[depth] = count
	}

	if err := scanCounts(s.db, `SELECT domain, COUNT(*) AS c FROM crawled_urls GROUP BY domain ORDER BY c DESC LIMIT 10`, func(k string, v int) {
		stats.TopDomains[k] = v
	}); err != nil {
		return stats, err
	}

	return stats, nil
}

func scanCounts(db *sql.DB, query string, set func(string, int)) error {
	rows, err := db.Query(query)
	if err != nil {
		return fmt.Errorf("query %q: %w", query, err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		set(key, count)
	}
	return rows.Err()
}

// ExportCSV writes the crawled_urls table, ordered by timestamp, to a
// CSV file at path. Supplements the spec's durable store with the
// reporting capability the reference implementation's export_to_csv
// provides.
func (s *Store) ExportCSV(path string) error {
	rows, err := s.db.Query(`
		SELECT url, title, content_length, status, depth, timestamp, domain, response_time
		FROM crawled_urls ORDER BY timestamp
	`)
	if err != nil {
		return fmt.Errorf("query for export: %w", err)
	}
	defer rows.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"url", "title", "content_length", "status", "depth", "timestamp", "domain", "response_time"}); err != nil {
		return err
	}

	for rows.Next() {
		var url, title, status, domain string
		var contentLength, depth int
		var timestamp time.Time
		var responseTime float64
		if err := rows.Scan(&url, &title, &contentLength, &status, &depth, &timestamp, &domain, &responseTime); err != nil {
			return err
		}
		record := []string{
			url, title, fmt.Sprint(contentLength), status, fmt.Sprint(depth),
			timestamp.Format(time.RFC3339), domain, fmt.Sprintf("%f", responseTime),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return rows.Err()
}

// PruneOlderThan deletes crawled_urls rows older than d and reports how
// many were removed. Supplements the store with the reference
// implementation's cleanup_old_entries behavior.
func (s *Store) PruneOlderThan(d time.Duration) (int64, error) {
	cutoff := time.Now().Add(-d)
	result, err := s.db.Exec(`DELETE FROM crawled_urls WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune old entries: %w", err)
	}
	return result.RowsAffected()
}
