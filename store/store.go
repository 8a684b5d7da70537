// Package store persists the last good item list of every sensor so a
// restart serves data before the first cycle completes.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	_ "modernc.org/sqlite"

	"github.com/s0up4200/mediarr/content"
)

const schema = `
CREATE TABLE IF NOT EXISTS sensor_state (
	name       TEXT PRIMARY KEY,
	items      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
)`

// ErrNotFound is returned by Load when a sensor has no saved state
var ErrNotFound = errors.New("sensor state not found")

// State is a persisted sensor list
type State struct {
	Name      string
	Items     []content.Item
	UpdatedAt time.Time
}

// Store is a SQLite-backed sensor state cache
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	// One writer; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)

	s, err := New(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing database handle and applies the schema
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save replaces the stored list for a sensor
func (s *Store) Save(ctx context.Context, name string, items []content.Item, updatedAt time.Time) error {
	if items == nil {
		items = []content.Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sensor_state (name, items, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET items = excluded.items, updated_at = excluded.updated_at`,
		name, string(data), updatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// Load returns the stored list for a sensor
func (s *Store) Load(ctx context.Context, name string) (*State, error) {
	var (
		data      string
		updatedAt time.Time
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT items, updated_at FROM sensor_state WHERE name = ?", name,
	).Scan(&data, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	var items []content.Item
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return &State{Name: name, Items: items, UpdatedAt: updatedAt}, nil
}

// Delete removes a sensor's state
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sensor_state WHERE name = ?", name); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

// Names lists every sensor with saved state, sorted
func (s *Store) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM sensor_state ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list states: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Prune deletes the state of every sensor not in keep and returns the
// removed names
func (s *Store) Prune(ctx context.Context, keep []string) ([]string, error) {
	names, err := s.Names(ctx)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, name := range names {
		if slices.Contains(keep, name) {
			continue
		}
		if err := s.Delete(ctx, name); err != nil {
			return removed, err
		}
		removed = append(removed, name)
	}
	return removed, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
