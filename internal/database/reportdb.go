package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/regreport/internal/model"
	"github.com/nao1215/regreport/internal/report"
)

// ErrAmbiguousID is returned when a run id prefix matches several runs.
var ErrAmbiguousID = errors.New("run id prefix matches more than one report")

// ErrDatabaseNotFound is returned by Open when the database file is missing
// and CreateIfNotExists is false.
var ErrDatabaseNotFound = errors.New("database not found")

// timestampLayout is the layout used for stored timestamps. It sorts
// lexically in time order.
const timestampLayout = "2006-01-02 15:04:05.000000"

// ReportDB provides SQLite-based storage for rendered regression reports.
// Every render is stored as a run keyed by a time-ordered UUID, so that
// runs can be listed, shown again and compared.
type ReportDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// now returns the time stamped on saved runs.
	now func() time.Time
}

// Options configures ReportDB behavior.
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

// Open opens or creates a ReportDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ReportDB, error) {
	dbPath := filepath.Join(dbDir, "regreport.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ReportDB{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
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
func (rdb *ReportDB) Close() error {
	return rdb.db.Close()
}

// Path returns the database file path.
func (rdb *ReportDB) Path() string {
	return rdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (rdb *ReportDB) createTables() error {
	schema := `
	-- Reports store one rendered run each. The report text is zstd
	-- compressed; the structured result is kept as JSON.
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		dataset TEXT NOT NULL,
		title TEXT NOT NULL,
		source TEXT,
		timestamp TEXT NOT NULL,
		digest TEXT NOT NULL,
		parameters INTEGER NOT NULL,
		summary BLOB NOT NULL,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_dataset ON reports(dataset);
	CREATE INDEX IF NOT EXISTS idx_reports_digest ON reports(digest);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON reports(timestamp);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// ReportMetadata contains summary information about a stored run.
// This is used for listing history without loading the full report.
type ReportMetadata struct {
	// ID is the run identifier (a version 7 UUID).
	ID string `json:"id"`

	// Dataset and Title identify the reported model.
	Dataset string `json:"dataset"`
	Title   string `json:"title"`

	// Source is the fitted model document the run was rendered from.
	Source string `json:"source"`

	// Timestamp is when the run was stored.
	Timestamp time.Time `json:"timestamp"`

	// Digest is the hex xxhash64 of the report text.
	Digest string `json:"digest"`

	// Parameters is the number of rows of the results table.
	Parameters int `json:"parameters"`
}

// ReportRecord is a stored run with its full result.
type ReportRecord struct {
	ReportMetadata

	Result *model.Result
}

// SaveResult stores a rendered result and returns its run id.
func (rdb *ReportDB) SaveResult(ctx context.Context, source string, res *model.Result) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to create run id: %w", err)
	}

	// The text is stored compressed on its own column.
	stripped := *res
	stripped.Summary = ""
	resultJSON, err := json.Marshal(&stripped)
	if err != nil {
		return "", fmt.Errorf("failed to serialize result: %w", err)
	}

	query := `
	INSERT INTO reports (id, dataset, title, source, timestamp, digest, parameters, summary, result_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = rdb.db.ExecContext(ctx, query,
		id.String(),
		res.Dataset,
		res.Title,
		source,
		rdb.now().UTC().Format(timestampLayout),
		report.Digest(res.Summary),
		len(res.Output),
		compressText(res.Summary),
		string(resultJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	return id.String(), nil
}

// GetReport retrieves a stored run by its id or a unique id prefix.
// It returns nil without error when no run matches.
func (rdb *ReportDB) GetReport(ctx context.Context, idOrPrefix string) (*ReportRecord, error) {
	query := `
	SELECT id, dataset, title, source, timestamp, digest, parameters, summary, result_json
	FROM reports
	WHERE substr(id, 1, length(?)) = ?
	ORDER BY id
	LIMIT 2
	`

	rows, err := rdb.db.QueryContext(ctx, query, idOrPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	defer rows.Close()

	var records []*ReportRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	switch {
	case len(records) == 0:
		return nil, nil
	case len(records) > 1 && records[0].ID != idOrPrefix:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, idOrPrefix)
	default:
		return records[0], nil
	}
}

func scanRecord(rows *sql.Rows) (*ReportRecord, error) {
	var (
		rec        ReportRecord
		source     sql.NullString
		timestamp  string
		summary    []byte
		resultJSON string
	)
	if err := rows.Scan(&rec.ID, &rec.Dataset, &rec.Title, &source, &timestamp,
		&rec.Digest, &rec.Parameters, &summary, &resultJSON); err != nil {
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}
	rec.Source = source.String
	rec.Timestamp = parseTimestamp(timestamp)

	var res model.Result
	if err := json.Unmarshal([]byte(resultJSON), &res); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", rec.ID, err)
	}
	text, err := decompressText(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to restore report %s: %w", rec.ID, err)
	}
	res.Summary = text
	rec.Result = &res
	return &rec, nil
}

// ListDatasets returns the datasets with at least one stored run.
func (rdb *ReportDB) ListDatasets(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT dataset FROM reports
	ORDER BY dataset
	`

	rows, err := rdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []string
	for rows.Next() {
		var dataset string
		if err := rows.Scan(&dataset); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		datasets = append(datasets, dataset)
	}

	return datasets, rows.Err()
}

// History returns run metadata for a dataset, newest first.
func (rdb *ReportDB) History(ctx context.Context, dataset string) ([]ReportMetadata, error) {
	query := `
	SELECT id, dataset, title, source, timestamp, digest, parameters
	FROM reports
	WHERE dataset = ?
	ORDER BY timestamp DESC, id DESC
	`
	return rdb.queryMetadata(ctx, query, dataset)
}

// FindByDigest returns the runs whose report text has the given digest,
// newest first.
func (rdb *ReportDB) FindByDigest(ctx context.Context, digest string) ([]ReportMetadata, error) {
	query := `
	SELECT id, dataset, title, source, timestamp, digest, parameters
	FROM reports
	WHERE digest = ?
	ORDER BY timestamp DESC, id DESC
	`
	return rdb.queryMetadata(ctx, query, digest)
}

func (rdb *ReportDB) queryMetadata(ctx context.Context, query string, args ...any) ([]ReportMetadata, error) {
	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get report history: %w", err)
	}
	defer rows.Close()

	var results []ReportMetadata
	for rows.Next() {
		var (
			meta      ReportMetadata
			source    sql.NullString
			timestamp string
		)
		if err := rows.Scan(&meta.ID, &meta.Dataset, &meta.Title, &source,
			&timestamp, &meta.Digest, &meta.Parameters); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.Source = source.String
		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
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
