// Package library stores named circuits in a SQLite database.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Garsondee/Circuits/internal/circuit"
)

// ErrNotFound is returned when no circuit has the requested name.
var ErrNotFound = errors.New("library: circuit not found")

// Entry describes one stored circuit.
type Entry struct {
	Name    string
	Width   int
	Height  int
	Updated time.Time
}

// Library is a SQLite-backed circuit store.
type Library struct {
	db  *sql.DB
	now func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS circuits (
	name       TEXT PRIMARY KEY,
	width      INTEGER NOT NULL,
	height     INTEGER NOT NULL,
	data       BLOB NOT NULL,
	updated_ms INTEGER NOT NULL
);`

// Open opens or creates the library at path. ":memory:" opens a private
// in-memory library.
func Open(path string) (*Library, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("library path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create library dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		schema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init library: %w", err)
		}
	}
	return &Library{db: db, now: time.Now}, nil
}

// Close closes the database handle.
func (l *Library) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("circuit name is required")
	}
	return name, nil
}

// Save stores g under name, replacing any circuit already there.
func (l *Library) Save(ctx context.Context, name string, g *circuit.Grid) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	data, err := g.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode circuit: %w", err)
	}
	_, err = l.db.ExecContext(ctx, `
		INSERT INTO circuits (name, width, height, data, updated_ms)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			width = excluded.width,
			height = excluded.height,
			data = excluded.data,
			updated_ms = excluded.updated_ms`,
		name, g.Width(), g.Height(), data, l.now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save circuit %q: %w", name, err)
	}
	return nil
}

// Load returns the circuit stored under name.
func (l *Library) Load(ctx context.Context, name string) (*circuit.Grid, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	var data []byte
	err = l.db.QueryRowContext(ctx, `SELECT data FROM circuits WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load circuit %q: %w", name, err)
	}
	g, err := circuit.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode circuit %q: %w", name, err)
	}
	return g, nil
}

// List returns every stored circuit sorted by name.
func (l *Library) List(ctx context.Context) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT name, width, height, updated_ms FROM circuits ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list circuits: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			ms int64
		)
		if err := rows.Scan(&e.Name, &e.Width, &e.Height, &ms); err != nil {
			return nil, fmt.Errorf("scan circuit row: %w", err)
		}
		e.Updated = time.UnixMilli(ms).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes the circuit stored under name.
func (l *Library) Delete(ctx context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	res, err := l.db.ExecContext(ctx, `DELETE FROM circuits WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete circuit %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
