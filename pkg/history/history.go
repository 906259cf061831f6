// Package history keeps a SQLite ledger of placed attachments.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/entrhq/droplink/pkg/drop"
)

const schema = `
CREATE TABLE IF NOT EXISTS placements (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	placed_at INTEGER NOT NULL,
	note_path TEXT NOT NULL,
	original_name TEXT NOT NULL,
	target_path TEXT NOT NULL,
	link TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_placements_placed_at ON placements(placed_at DESC);
`

// Record is one placed attachment.
type Record struct {
	ID           int64
	PlacedAt     time.Time
	NotePath     string
	OriginalName string
	TargetPath   string
	Link         string
}

// Ledger stores records in a SQLite database.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath returns ~/.droplink/history.db.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".droplink", "history.db"), nil
}

// Open opens or creates the ledger at path. ":memory:" gives a private
// in-memory ledger.
func Open(path string) (*Ledger, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &Ledger{db: db, now: time.Now}, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Add stores r. A zero PlacedAt is set to the current time.
func (l *Ledger) Add(ctx context.Context, r Record) (int64, error) {
	if r.PlacedAt.IsZero() {
		r.PlacedAt = l.now()
	}

	res, err := l.db.ExecContext(ctx,
		`INSERT INTO placements (placed_at, note_path, original_name, target_path, link) VALUES (?, ?, ?, ?, ?)`,
		r.PlacedAt.UnixMilli(), r.NotePath, r.OriginalName, r.TargetPath, r.Link,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record placement: %w", err)
	}
	return res.LastInsertId()
}

// RecordPlacement stores a successful placement made for the note at
// notePath.
func (l *Ledger) RecordPlacement(ctx context.Context, notePath string, p drop.Placement) error {
	_, err := l.Add(ctx, Record{
		NotePath:     notePath,
		OriginalName: p.Original,
		TargetPath:   p.Path,
		Link:         p.Link,
	})
	return err
}

// Recent returns up to limit records, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, placed_at, note_path, original_name, target_path, link
		 FROM placements ORDER BY placed_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var placedAt int64
		if err := rows.Scan(&r.ID, &placedAt, &r.NotePath, &r.OriginalName, &r.TargetPath, &r.Link); err != nil {
			return nil, fmt.Errorf("failed to read history row: %w", err)
		}
		r.PlacedAt = time.UnixMilli(placedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}
