// Package record persists shader snapshots in a local SQLite database,
// so a playground session can be saved and picked up again later.
package record

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/shaderdesk/shaderdesk/playground"
)

// ErrRecordNotFound indicates the requested record doesn't exist
var ErrRecordNotFound = errors.New("record not found")

// Record is one saved shader.
type Record struct {
	ID        string
	Name      string
	Source    string
	Revision  uint64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store handles SQLite storage for shader records
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the record database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		source TEXT NOT NULL,
		revision INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists a record. A record with an empty ID gets a fresh one
// and its creation time; saving an existing ID overwrites it in place.
func (s *Store) Save(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO records (id, name, source, revision, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		rec.ID, rec.Name, rec.Source, rec.Revision,
		rec.CreatedAt.Format(time.RFC3339Nano), rec.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// SaveSnapshot captures the code store's current text under name and
// persists it as a new record.
func (s *Store) SaveSnapshot(name string, code *playground.CodeStore) (*Record, error) {
	text, rev := code.Snapshot()
	rec := &Record{Name: name, Source: text, Revision: rev}
	if err := s.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Load retrieves a record by ID.
func (s *Store) Load(id string) (*Record, error) {
	rec := &Record{ID: id}
	var created, updated string
	err := s.db.QueryRow(
		"SELECT name, source, revision, created_at, updated_at FROM records WHERE id = ?", id,
	).Scan(&rec.Name, &rec.Source, &rec.Revision, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying record: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return rec, nil
}

// Restore loads a record and pushes its source into the code store,
// which bumps the revision and triggers the usual reload path.
func (s *Store) Restore(id string, code *playground.CodeStore) (*Record, error) {
	rec, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	code.SetText(rec.Source)
	return rec, nil
}

// List returns all records, most recently updated first. Sources are
// included; playground shaders are small.
func (s *Store) List() ([]Record, error) {
	rows, err := s.db.Query(
		"SELECT id, name, source, revision, created_at, updated_at FROM records ORDER BY updated_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		var created, updated string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Source, &rec.Revision, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Delete removes a record.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRecordNotFound
	}
	return nil
}
