// Package storage provides the SQLite-backed contact snapshot table.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/malotru/jourj/internal/config"
	"github.com/malotru/jourj/internal/contacts"
)

// DB wraps a SQLite connection holding the persisted contact snapshot.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (or creates) the contact database at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec(Schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrSchemaInit, err)
	}

	return &DB{conn: conn, path: dbPath}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.conn != nil {
		return d.conn.Close()
	}
	return nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// encodeLabels converts a label set to its flat string payload.
func encodeLabels(labels []string) (string, error) {
	data, err := json.Marshal(labels)
	return string(data), err
}

// decodeLabels converts a flat string payload back to a label set.
func decodeLabels(payload string) ([]string, error) {
	var labels []string
	if payload == "" {
		return labels, nil
	}
	err := json.Unmarshal([]byte(payload), &labels)
	return labels, err
}

// encodeActions converts an action bundle to its flat string payload.
func encodeActions(a contacts.Actions) (string, error) {
	data, err := json.Marshal(a)
	return string(data), err
}

// decodeActions converts a flat string payload back to an action bundle.
func decodeActions(payload string) (contacts.Actions, error) {
	var a contacts.Actions
	if payload == "" {
		return a, nil
	}
	err := json.Unmarshal([]byte(payload), &a)
	return a, err
}

// ReplaceAll atomically replaces the persisted snapshot with a new one.
// Contacts absent from the new snapshot are removed; readers observe either
// the old complete set or the new one, never a mix.
func (d *DB) ReplaceAll(ctx context.Context, snapshot []contacts.Contact) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrPersistFailed, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM contacts"); err != nil {
		return fmt.Errorf("%s: %w", config.ErrPersistFailed, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO contacts
			(id, name, birthday, labels, age, remaining_days, actions, photo_ref, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrPersistFailed, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range snapshot {
		labels, err := encodeLabels(c.Labels)
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrPersistFailed, err)
		}
		actions, err := encodeActions(c.Actions)
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrPersistFailed, err)
		}
		if _, err := stmt.ExecContext(ctx,
			c.ID, c.Name, c.Birthday, labels, c.Age, c.RemainingDays, actions, c.PhotoRef, now,
		); err != nil {
			return fmt.Errorf("%s: %w", config.ErrPersistFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrPersistFailed, err)
	}
	return nil
}

// All returns the full persisted snapshot in stored scan order (soonest
// birthday first, insertion order within ties).
func (d *DB) All(ctx context.Context) ([]contacts.Contact, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, name, birthday, labels, age, remaining_days, actions, photo_ref
		FROM contacts
		ORDER BY remaining_days ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []contacts.Contact
	for rows.Next() {
		var c contacts.Contact
		var labels string
		var actions, photo sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Birthday, &labels, &c.Age, &c.RemainingDays, &actions, &photo); err != nil {
			return nil, err
		}
		if c.Labels, err = decodeLabels(labels); err != nil {
			return nil, err
		}
		if c.Actions, err = decodeActions(actions.String); err != nil {
			return nil, err
		}
		c.PhotoRef = photo.String
		out = append(out, c)
	}
	return out, rows.Err()
}

// Count returns the number of persisted contacts.
func (d *DB) Count(ctx context.Context) int {
	var n int
	_ = d.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts").Scan(&n)
	return n
}
