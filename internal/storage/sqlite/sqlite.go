// Package sqlite provides a SQLite-backed implementation of
// storage.Storage using Go's database/sql package.
//
// SQLite keeps everything in a single file on disk, so the "sqlite"
// driver runs the app with no database server at all. Records get a
// UUID primary key generated here, playing the role the ObjectID plays
// in the Mongo backend.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/persons-app/internal/config"
	"github.com/aanand-mishra/persons-app/internal/storage"
	"github.com/aanand-mishra/persons-app/internal/types"
	"github.com/google/uuid"

	// Blank import: registers the "sqlite3" driver with database/sql.
	_ "github.com/mattn/go-sqlite3"
)

// SQLite holds a *sql.DB, which is a connection pool safe for concurrent
// use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.Storage.Path and creates the
// persons table if it does not already exist.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent; safe on every startup.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS persons (
			id     TEXT    PRIMARY KEY,
			name   TEXT    NOT NULL,
			age    INTEGER NOT NULL,
			gender TEXT    NOT NULL,
			mobile TEXT    NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// CreatePerson inserts a new row. Values go through ? placeholders, never
// string concatenation, so user input is always treated as data.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) CreatePerson(ctx context.Context, p types.Person) (string, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO persons (id, name, age, gender, mobile) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return "", fmt.Errorf("CreatePerson: prepare: %w", err)
	}
	defer stmt.Close()

	id := uuid.NewString()
	if _, err := stmt.ExecContext(ctx, id, p.Name, p.Age, p.Gender, p.Mobile); err != nil {
		return "", fmt.Errorf("CreatePerson: exec: %w", err)
	}

	return id, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetPersonByID fetches exactly one row. Scan order must match the
// SELECT column order.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetPersonByID(ctx context.Context, id string) (types.Person, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT id, name, age, gender, mobile FROM persons WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Person{}, fmt.Errorf("GetPersonByID: prepare: %w", err)
	}
	defer stmt.Close()

	var p types.Person
	err = stmt.QueryRowContext(ctx, id).Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.Mobile)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Person{}, storage.ErrNotFound
		}
		return types.Person{}, fmt.Errorf("GetPersonByID: scan: %w", err)
	}

	return p, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetPersons returns all rows. No ORDER BY: callers must not rely on
// the order.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetPersons(ctx context.Context) ([]types.Person, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT id, name, age, gender, mobile FROM persons",
	)
	if err != nil {
		return nil, fmt.Errorf("GetPersons: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetPersons: query: %w", err)
	}
	defer rows.Close()

	persons := make([]types.Person, 0)
	for rows.Next() {
		var p types.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.Mobile); err != nil {
			return nil, fmt.Errorf("GetPersons: scan row: %w", err)
		}
		persons = append(persons, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetPersons: rows iteration: %w", err)
	}

	return persons, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdatePersonByID sets all four attributes. SQLite's RowsAffected counts
// matched rows, so the UPDATE only targets rows whose values differ and
// a separate existence check supplies Matched.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) UpdatePersonByID(ctx context.Context, id string, p types.Person) (storage.UpdateResult, error) {
	var matched int64
	err := s.Db.QueryRowContext(ctx, "SELECT COUNT(1) FROM persons WHERE id = ?", id).Scan(&matched)
	if err != nil {
		return storage.UpdateResult{}, fmt.Errorf("UpdatePersonByID: match: %w", err)
	}
	if matched == 0 {
		return storage.UpdateResult{}, nil
	}

	stmt, err := s.Db.PrepareContext(ctx, `
		UPDATE persons SET name = ?, age = ?, gender = ?, mobile = ?
		WHERE id = ? AND NOT (name = ? AND age = ? AND gender = ? AND mobile = ?)
	`)
	if err != nil {
		return storage.UpdateResult{}, fmt.Errorf("UpdatePersonByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		p.Name, p.Age, p.Gender, p.Mobile,
		id,
		p.Name, p.Age, p.Gender, p.Mobile,
	)
	if err != nil {
		return storage.UpdateResult{}, fmt.Errorf("UpdatePersonByID: exec: %w", err)
	}

	modified, err := result.RowsAffected()
	if err != nil {
		return storage.UpdateResult{}, fmt.Errorf("UpdatePersonByID: rows affected: %w", err)
	}

	return storage.UpdateResult{Matched: matched, Modified: modified}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// DeletePersonByID removes a row by primary key and reports how many
// rows went away.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) DeletePersonByID(ctx context.Context, id string) (int64, error) {
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM persons WHERE id = ?")
	if err != nil {
		return 0, fmt.Errorf("DeletePersonByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("DeletePersonByID: exec: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeletePersonByID: rows affected: %w", err)
	}

	return n, nil
}

func (s *SQLite) Close(context.Context) error {
	return s.Db.Close()
}
