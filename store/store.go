// Package store keeps the log of committed top-level forms in a SQLite
// database so a session can be replayed after restart.
package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS forms (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	source     TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

// Store is a sqlite-backed form log. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	log.Printf("opened form log: %s", path)
	return &Store{db: db, path: path}, nil
}

// Append records one form at the end of the log.
func (s *Store) Append(form string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO forms (source, created_at) VALUES (?, ?)`,
		form, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append form: %w", err)
	}
	return nil
}

// Forms returns every logged form in insertion order.
func (s *Store) Forms() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(`SELECT source FROM forms ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query forms: %w", err)
	}
	defer rows.Close()

	var forms []string
	for rows.Next() {
		var src string
		if err := rows.Scan(&src); err != nil {
			return nil, fmt.Errorf("scan form: %w", err)
		}
		forms = append(forms, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query forms: %w", err)
	}
	return forms, nil
}

// Len returns the number of logged forms.
func (s *Store) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM forms`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count forms: %w", err)
	}
	return n, nil
}

// Clear deletes every logged form in one transaction.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM forms`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM sqlite_sequence WHERE name = 'forms'`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	log.Printf("closing form log: %s", s.path)
	return s.db.Close()
}
