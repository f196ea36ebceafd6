// Package manifest records the outcome of every examined annotation in a
// sqlite database, one row per annotation per run.
package manifest

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/model-collapse/obj-extr/internal/coco"
	"github.com/model-collapse/obj-extr/internal/extract"
)

const (
	StatusSaved   = "saved"
	StatusSkipped = "skipped"
)

const schema = `
CREATE TABLE IF NOT EXISTS cutout_runs (
	run_id     TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS cutouts (
	run_id        TEXT NOT NULL,
	annotation_id INTEGER NOT NULL,
	image_id      INTEGER NOT NULL,
	category_id   INTEGER NOT NULL,
	label         TEXT,
	status        TEXT NOT NULL,
	code          TEXT,
	output_path   TEXT,
	detail        TEXT,
	recorded_at   INTEGER NOT NULL,
	PRIMARY KEY (run_id, annotation_id)
);
`

// Entry is one recorded outcome.
type Entry struct {
	RunID        string
	AnnotationID int64
	ImageID      int64
	CategoryID   int64
	Label        string
	Status       string
	Code         extract.ErrorCode
	OutputPath   string
	Detail       string
}

// Store implements extract.Observer. Writes go through a single
// connection, so workers may report concurrently.
type Store struct {
	db    *sql.DB
	runID string

	mu       sync.Mutex
	firstErr error
}

// Open opens (creating if needed) the manifest at path and starts a new run.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open manifest %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	// set busy timeout to avoid transient locks from concurrent readers
	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set manifest busy timeout %s: %w", path, err)
	}

	s, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore creates the schema on an existing *sql.DB and registers a run.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create manifest schema: %w", err)
	}

	s := &Store{db: db, runID: uuid.New().String()}
	if _, err := db.Exec(`INSERT INTO cutout_runs (run_id, started_at) VALUES (?, ?)`,
		s.runID, time.Now().UnixNano()); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return s, nil
}

func (s *Store) RunID() string { return s.runID }

func (s *Store) Saved(a coco.Annotation, label, path string) {
	s.record(Entry{
		AnnotationID: a.ID,
		ImageID:      a.ImageID,
		CategoryID:   a.CategoryID,
		Label:        label,
		Status:       StatusSaved,
		OutputPath:   path,
	})
}

func (s *Store) Skipped(a coco.Annotation, err error) {
	s.record(Entry{
		AnnotationID: a.ID,
		ImageID:      a.ImageID,
		CategoryID:   a.CategoryID,
		Status:       StatusSkipped,
		Code:         extract.Code(err),
		Detail:       err.Error(),
	})
}

func (s *Store) record(e Entry) {
	query := `
		INSERT OR REPLACE INTO cutouts (
			run_id, annotation_id, image_id, category_id, label,
			status, code, output_path, detail, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		s.runID,
		e.AnnotationID,
		e.ImageID,
		e.CategoryID,
		nullString(e.Label),
		e.Status,
		nullString(string(e.Code)),
		nullString(e.OutputPath),
		nullString(e.Detail),
		time.Now().UnixNano(),
	)
	if err != nil {
		s.mu.Lock()
		if s.firstErr == nil {
			s.firstErr = fmt.Errorf("insert cutout %d: %w", e.AnnotationID, err)
		}
		s.mu.Unlock()
	}
}

// Err returns the first write error, if any. Observers cannot fail the
// batch, so callers check this once the run is over.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstErr
}

// Summary counts this run's entries by status, with skips broken down by
// code as "skipped:CODE".
func (s *Store) Summary() (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT status, COALESCE(code, ''), COUNT(*) FROM cutouts
		WHERE run_id = ? GROUP BY status, code`, s.runID)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	ret := make(map[string]int)
	for rows.Next() {
		var status, code string
		var n int
		if err := rows.Scan(&status, &code, &n); err != nil {
			return nil, err
		}
		if code != "" {
			status += ":" + code
		}
		ret[status] += n
	}
	return ret, rows.Err()
}

// Entries lists this run's entries ordered by annotation id.
func (s *Store) Entries() ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT annotation_id, image_id, category_id, COALESCE(label, ''), status,
			COALESCE(code, ''), COALESCE(output_path, ''), COALESCE(detail, '')
		FROM cutouts WHERE run_id = ? ORDER BY annotation_id`, s.runID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var ret []Entry
	for rows.Next() {
		e := Entry{RunID: s.runID}
		var code string
		if err := rows.Scan(&e.AnnotationID, &e.ImageID, &e.CategoryID, &e.Label,
			&e.Status, &code, &e.OutputPath, &e.Detail); err != nil {
			return nil, err
		}
		e.Code = extract.ErrorCode(code)
		ret = append(ret, e)
	}
	return ret, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
