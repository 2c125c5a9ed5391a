// Package store is the SQLite persistence layer for indexed reactivity
// records: one row per classified node, grouped by file.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  id              INTEGER PRIMARY KEY,
  path            TEXT NOT NULL UNIQUE,
  hash            TEXT,
  line_count      INTEGER,
  last_indexed    TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ref_records (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  extractor       TEXT NOT NULL,
  kind            TEXT NOT NULL,
  role            TEXT,
  method          TEXT NOT NULL,
  name            TEXT,
  escaped         BOOLEAN DEFAULT FALSE,
  start_line      INTEGER,
  start_col       INTEGER,
  end_line        INTEGER,
  end_col         INTEGER,
  define_line     INTEGER,
  define_col      INTEGER
);

CREATE INDEX IF NOT EXISTS idx_ref_records_file   ON ref_records(file_id);
CREATE INDEX IF NOT EXISTS idx_ref_records_method ON ref_records(method);
`

// File is one indexed source file.
type File struct {
	ID          int64
	Path        string
	Hash        string
	LineCount   int
	LastIndexed time.Time
}

// Record is one persisted reference classification.
type Record struct {
	ID        int64
	FileID    int64
	Extractor string
	Kind      string
	Role      string
	Method    string
	Name      string
	Escape    bool
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
	// DefineLine/DefineCol locate the definition-site call.
	DefineLine int
	DefineCol  int
}

// InsertFile inserts a file row and returns its ID.
func (s *Store) InsertFile(f *File) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO files (path, hash, line_count, last_indexed) VALUES (?, ?, ?, ?)`,
		f.Path, f.Hash, f.LineCount, f.LastIndexed,
	)
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}
	return res.LastInsertId()
}

// FileByPath returns the file row for path, or nil when not indexed.
func (s *Store) FileByPath(path string) (*File, error) {
	row := s.db.QueryRow(
		`SELECT id, path, hash, line_count, last_indexed FROM files WHERE path = ?`, path,
	)
	f := &File{}
	err := row.Scan(&f.ID, &f.Path, &f.Hash, &f.LineCount, &f.LastIndexed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

// Files returns all indexed files ordered by path.
func (s *Store) Files() ([]*File, error) {
	rows, err := s.db.Query(`SELECT id, path, hash, line_count, last_indexed FROM files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()
	var files []*File
	for rows.Next() {
		f := &File{}
		if err := rows.Scan(&f.ID, &f.Path, &f.Hash, &f.LineCount, &f.LastIndexed); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// DeleteFile removes a file row; its records go with it through the
// ON DELETE CASCADE (foreign keys are enabled in the DSN).
func (s *Store) DeleteFile(fileID int64) error {
	if _, err := s.db.Exec(`DELETE FROM files WHERE id = ?`, fileID); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// InsertRecord inserts one classification row.
func (s *Store) InsertRecord(r *Record) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO ref_records
		   (file_id, extractor, kind, role, method, name, escaped,
		    start_line, start_col, end_line, end_col, define_line, define_col)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.FileID, r.Extractor, r.Kind, r.Role, r.Method, r.Name, r.Escape,
		r.StartLine, r.StartCol, r.EndLine, r.EndCol, r.DefineLine, r.DefineCol,
	)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	return res.LastInsertId()
}

const recordColumns = `id, file_id, extractor, kind, role, method, name, escaped,
  start_line, start_col, end_line, end_col, define_line, define_col`

func scanRecords(rows *sql.Rows) ([]*Record, error) {
	defer rows.Close()
	var records []*Record
	for rows.Next() {
		r := &Record{}
		err := rows.Scan(
			&r.ID, &r.FileID, &r.Extractor, &r.Kind, &r.Role, &r.Method, &r.Name, &r.Escape,
			&r.StartLine, &r.StartCol, &r.EndLine, &r.EndCol, &r.DefineLine, &r.DefineCol,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// RecordsByFile returns a file's records in source order.
func (s *Store) RecordsByFile(fileID int64) ([]*Record, error) {
	rows, err := s.db.Query(
		`SELECT `+recordColumns+` FROM ref_records
		 WHERE file_id = ? ORDER BY start_line, start_col`, fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("records by file: %w", err)
	}
	return scanRecords(rows)
}

// RecordsByMethod returns every record for one factory or macro name.
func (s *Store) RecordsByMethod(method string) ([]*Record, error) {
	rows, err := s.db.Query(
		`SELECT `+recordColumns+` FROM ref_records
		 WHERE method = ? ORDER BY file_id, start_line, start_col`, method,
	)
	if err != nil {
		return nil, fmt.Errorf("records by method: %w", err)
	}
	return scanRecords(rows)
}

// RecordsByExtractor returns every record for one extractor kind.
func (s *Store) RecordsByExtractor(extractor string) ([]*Record, error) {
	rows, err := s.db.Query(
		`SELECT `+recordColumns+` FROM ref_records
		 WHERE extractor = ? ORDER BY file_id, start_line, start_col`, extractor,
	)
	if err != nil {
		return nil, fmt.Errorf("records by extractor: %w", err)
	}
	return scanRecords(rows)
}

// MethodCount is one row of the per-method summary.
type MethodCount struct {
	Method string
	Count  int
}

// MethodCounts summarizes record counts per method, most frequent first.
func (s *Store) MethodCounts() ([]MethodCount, error) {
	rows, err := s.db.Query(
		`SELECT method, COUNT(*) FROM ref_records GROUP BY method ORDER BY COUNT(*) DESC, method`,
	)
	if err != nil {
		return nil, fmt.Errorf("method counts: %w", err)
	}
	defer rows.Close()
	var counts []MethodCount
	for rows.Next() {
		var mc MethodCount
		if err := rows.Scan(&mc.Method, &mc.Count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts = append(counts, mc)
	}
	return counts, rows.Err()
}
