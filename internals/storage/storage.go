package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	ErrNotFound   = errors.New("record not found")
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	body TEXT NOT NULL,
	timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	user_id INTEGER NOT NULL REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_notes_user_id ON notes(user_id);
CREATE INDEX IF NOT EXISTS idx_notes_timestamp ON notes(timestamp);

CREATE TABLE IF NOT EXISTS tagged_notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tag TEXT NOT NULL,
	note_id INTEGER NOT NULL REFERENCES notes(id)
);

CREATE INDEX IF NOT EXISTS idx_tagged_notes_note_id ON tagged_notes(note_id);
`

// Store wraps the database handle and owns the schema. Requests never hold
// a connection across calls; database/sql checks one out per query and
// returns it on every exit path.
type Store struct {
	db *sqlx.DB
}

// Open connects to the sqlite database at path and creates the schema if
// it does not exist yet. The path may carry its own DSN options.
func Open(path string) (*Store, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sqlx.Open("sqlite3", path+sep+"_foreign_keys=on&_loc=UTC")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
