package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/uapcse/pubscan/internal/model"
)

// RunDB provides SQLite-based storage for extraction runs and their records.
// It manages connection pooling and provides methods for CRUD operations.
//
// A single database file holds every run; that keeps history queries and
// backup/restore trivial.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, "pubscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- Extraction runs store complete reports as JSON
	CREATE TABLE IF NOT EXISTS extract_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL,
		outcome_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_source ON extract_runs(source);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON extract_runs(timestamp);

	-- Publications store one row per outcome for direct queries
	CREATE TABLE IF NOT EXISTS publications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES extract_runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		year INTEGER NOT NULL,
		quartile TEXT,
		title TEXT,
		skipped INTEGER NOT NULL DEFAULT 0,
		reason TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_pubs_run ON publications(run_id);
	CREATE INDEX IF NOT EXISTS idx_pubs_year ON publications(year);
	CREATE INDEX IF NOT EXISTS idx_pubs_quartile ON publications(quartile);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun saves a complete extraction run: the report as JSON plus one
// publications row per outcome. The insert is transactional so a failed
// save never leaves a run without its records.
func (rdb *RunDB) SaveRun(ctx context.Context, report *model.ExtractReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	outcomeSummary := map[string]int{
		"extracted":        report.ExtractedCount(),
		"missing_title":    0,
		"missing_quartile": 0,
	}
	if report.Summary != nil {
		outcomeSummary["missing_title"] = report.Summary.MissingTitleCount
		outcomeSummary["missing_quartile"] = report.Summary.MissingQuartileCount
	}
	summaryJSON, _ := json.Marshal(outcomeSummary) //nolint:errcheck,errchkjson // simple map; Marshal won't fail

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result, err := tx.ExecContext(ctx,
		`INSERT INTO extract_runs (source, report_json, outcome_summary) VALUES (?, ?, ?)`,
		report.Source,
		string(reportJSON),
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for i, o := range report.Outcomes {
		var quartile, title, reason any
		if o.Quartile != model.QuartileUnknown {
			quartile = string(o.Quartile)
		}
		if o.Title != "" {
			title = o.Title
		}
		skipped := 0
		if o.Skipped {
			skipped = 1
			reason = o.Reason.String()
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO publications (run_id, position, year, quartile, title, skipped, reason)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, i, o.Year, quartile, title, skipped, reason,
		); err != nil {
			return 0, fmt.Errorf("failed to save publication: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// GetLatestRun retrieves the most recent extraction run for a source.
// Returns nil without error when the source has no runs.
func (rdb *RunDB) GetLatestRun(ctx context.Context, source string) (*model.ExtractReport, error) {
	query := `
	SELECT report_json FROM extract_runs
	WHERE source = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, query, source).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.ExtractReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// GetRunByID retrieves an extraction run by its database ID.
// Returns nil without error when no run has that ID.
func (rdb *RunDB) GetRunByID(ctx context.Context, id int64) (*model.ExtractReport, error) {
	var reportJSON string
	err := rdb.db.QueryRowContext(ctx,
		`SELECT report_json FROM extract_runs WHERE id = ?`, id,
	).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.ExtractReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// GetRunHistory retrieves all extraction runs for a source, newest first.
func (rdb *RunDB) GetRunHistory(ctx context.Context, source string) ([]*model.ExtractReport, error) {
	query := `
	SELECT report_json FROM extract_runs
	WHERE source = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := rdb.db.QueryContext(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}
	defer rows.Close()

	var reports []*model.ExtractReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		var report model.ExtractReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// RunMetadata contains summary information about a stored run.
// This is used for displaying run history without loading the full report.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Source is the input label the run was extracted from.
	Source string

	// Timestamp is when the extraction was performed.
	Timestamp time.Time

	// OutcomeSummary contains counts of outcomes by kind.
	OutcomeSummary map[string]int
}

// GetRunHistoryWithMetadata retrieves run metadata for a source.
// This is more efficient than GetRunHistory when only metadata is needed.
func (rdb *RunDB) GetRunHistoryWithMetadata(ctx context.Context, source string) ([]RunMetadata, error) {
	query := `
	SELECT id, source, timestamp, outcome_summary
	FROM extract_runs
	WHERE source = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := rdb.db.QueryContext(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		var summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.Source, &timestamp, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)

		if summaryJSON.Valid && summaryJSON.String != "" {
			if err := json.Unmarshal([]byte(summaryJSON.String), &meta.OutcomeSummary); err != nil {
				meta.OutcomeSummary = make(map[string]int)
			}
		} else {
			meta.OutcomeSummary = make(map[string]int)
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// ListSources returns all sources that have stored runs.
func (rdb *RunDB) ListSources(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT source FROM extract_runs
	ORDER BY source
	`

	rows, err := rdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// GetPublications retrieves the stored outcomes for a run, in input order.
func (rdb *RunDB) GetPublications(ctx context.Context, runID int64) ([]model.Outcome, error) {
	query := `
	SELECT year, quartile, title, skipped, reason
	FROM publications
	WHERE run_id = ?
	ORDER BY position
	`

	rows, err := rdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get publications: %w", err)
	}
	defer rows.Close()

	var outcomes []model.Outcome
	for rows.Next() {
		var o model.Outcome
		var quartile, title, reason sql.NullString
		var skipped int

		if err := rows.Scan(&o.Year, &quartile, &title, &skipped, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan publication: %w", err)
		}

		o.Quartile = model.Quartile(quartile.String)
		o.Title = title.String
		if skipped != 0 {
			o.Skipped = true
			o.ReasonText = reason.String
			if reason.String == model.SkipMissingQuartile.String() {
				o.Reason = model.SkipMissingQuartile
			}
		}

		outcomes = append(outcomes, o)
	}

	return outcomes, rows.Err()
}

// HasRecentRun checks if a source was extracted within the specified duration.
func (rdb *RunDB) HasRecentRun(ctx context.Context, source string, duration time.Duration) (bool, error) {
	query := `
	SELECT COUNT(*) FROM extract_runs
	WHERE source = ? AND timestamp > datetime('now', ?)
	`

	// SQLite datetime modifier format
	modifier := fmt.Sprintf("-%d seconds", int(duration.Seconds()))

	var count int
	if err := rdb.db.QueryRowContext(ctx, query, source, modifier).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check recent run: %w", err)
	}

	return count > 0, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
