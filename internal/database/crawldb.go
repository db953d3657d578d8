package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sitescrape/internal/model"
)

// FileName is the database file name inside the database directory.
const FileName = "sitescrape.db"

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("crawl run not found")

// CrawlDB stores the history of finished crawls.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	// busy_timeout lets a second process wait for the writer lock.
	dsn := dbPath + "?mode=rw&_pragma=busy_timeout(5000)"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Path returns the database file path.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- One row per finished crawl
	CREATE TABLE IF NOT EXISTS crawl_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		base_url TEXT NOT NULL,
		domain TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		max_depth INTEGER NOT NULL,
		max_pages INTEGER NOT NULL,
		pages_visited INTEGER NOT NULL,
		pages_stored INTEGER NOT NULL,
		total_words INTEGER NOT NULL,
		cancelled INTEGER NOT NULL DEFAULT 0,
		output_dir TEXT,
		files TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_domain ON crawl_runs(domain);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON crawl_runs(started_at);

	-- One row per stored page of a run
	CREATE TABLE IF NOT EXISTS crawl_pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES crawl_runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		depth INTEGER NOT NULL,
		word_count INTEGER NOT NULL,
		content_hash TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run ON crawl_pages(run_id);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunSummary is one stored crawl.
type RunSummary struct {
	ID           int64     `json:"id"`
	BaseURL      string    `json:"base_url"`
	Domain       string    `json:"domain"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	MaxDepth     int       `json:"max_depth"`
	MaxPages     int       `json:"max_pages"`
	PagesVisited int       `json:"pages_visited"`
	PagesStored  int       `json:"pages_stored"`
	TotalWords   int       `json:"total_words"`
	Cancelled    bool      `json:"cancelled"`
	OutputDir    string    `json:"output_dir,omitempty"`
	Files        []string  `json:"files,omitempty"`
}

// PageSummary is one stored page of a run.
type PageSummary struct {
	URL         string `json:"url"`
	Depth       int    `json:"depth"`
	WordCount   int    `json:"word_count"`
	ContentHash string `json:"content_hash"`
}

// ContentHash returns the hex SHA3-256 digest of content.
func ContentHash(content string) string {
	sum := sha3.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// SaveRun stores report and its pages in one transaction and returns the
// new run ID.
func (cdb *CrawlDB) SaveRun(ctx context.Context, report *model.CrawlReport) (int64, error) {
	filesJSON, err := json.Marshal(report.Files)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize files: %w", err)
	}

	var records []model.PageRecord
	if report.Store != nil {
		records = report.Store.Records()
	}

	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // no-op after commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO crawl_runs (base_url, domain, started_at, finished_at, max_depth, max_pages,
		pages_visited, pages_stored, total_words, cancelled, output_dir, files)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.BaseURL,
		report.Domain,
		report.StartedAt.UTC().Format(time.RFC3339Nano),
		report.FinishedAt.UTC().Format(time.RFC3339Nano),
		report.MaxDepth,
		report.MaxPages,
		report.PagesVisited,
		len(records),
		report.TotalWords(),
		report.Cancelled,
		report.OutputDir,
		string(filesJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert crawl run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO crawl_pages (run_id, url, depth, word_count, content_hash)
	VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare page insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, runID, rec.URL, rec.Depth, rec.WordCount(), ContentHash(rec.Content)); err != nil {
			return 0, fmt.Errorf("failed to insert page %s: %w", rec.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit crawl run: %w", err)
	}

	return runID, nil
}

// ListDomains returns every crawled domain, sorted.
func (cdb *CrawlDB) ListDomains(ctx context.Context) ([]string, error) {
	rows, err := cdb.db.QueryContext(ctx, `SELECT DISTINCT domain FROM crawl_runs ORDER BY domain`)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, domain)
	}

	return domains, rows.Err()
}

const runColumns = `id, base_url, domain, started_at, finished_at, max_depth, max_pages,
	pages_visited, pages_stored, total_words, cancelled, output_dir, files`

// ListRuns returns the runs of domain, newest first.
func (cdb *CrawlDB) ListRuns(ctx context.Context, domain string) ([]RunSummary, error) {
	rows, err := cdb.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM crawl_runs WHERE domain = ? ORDER BY started_at DESC, id DESC`,
		domain,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// GetRun returns a run by ID, or ErrRunNotFound.
func (cdb *CrawlDB) GetRun(ctx context.Context, runID int64) (*RunSummary, error) {
	row := cdb.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM crawl_runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	return run, err
}

// GetRunPages returns the pages of a run in output order.
func (cdb *CrawlDB) GetRunPages(ctx context.Context, runID int64) ([]PageSummary, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT url, depth, word_count, content_hash FROM crawl_pages
	WHERE run_id = ?
	ORDER BY depth, id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run pages: %w", err)
	}
	defer rows.Close()

	var pages []PageSummary
	for rows.Next() {
		var p PageSummary
		if err := rows.Scan(&p.URL, &p.Depth, &p.WordCount, &p.ContentHash); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, p)
	}

	return pages, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunSummary, error) {
	var run RunSummary
	var startedAt, finishedAt string
	var outputDir, filesJSON sql.NullString

	err := row.Scan(
		&run.ID,
		&run.BaseURL,
		&run.Domain,
		&startedAt,
		&finishedAt,
		&run.MaxDepth,
		&run.MaxPages,
		&run.PagesVisited,
		&run.PagesStored,
		&run.TotalWords,
		&run.Cancelled,
		&outputDir,
		&filesJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.StartedAt = parseTimestamp(startedAt)
	run.FinishedAt = parseTimestamp(finishedAt)
	run.OutputDir = outputDir.String
	if filesJSON.Valid && filesJSON.String != "" && filesJSON.String != "null" {
		if err := json.Unmarshal([]byte(filesJSON.String), &run.Files); err != nil {
			return nil, fmt.Errorf("failed to parse files: %w", err)
		}
	}

	return &run, nil
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
