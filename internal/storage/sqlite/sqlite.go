// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. It is the persistent alternative to the in-memory store and is
// selected with storage.backend: sqlite in the config file.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded; we never call anything from it directly.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"cloud.google.com/go/civil"

	"github.com/aanand-mishra/birthdays-api/internal/config"
	"github.com/aanand-mishra/birthdays-api/internal/storage"
	"github.com/aanand-mishra/birthdays-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at cfg.Storage.Path, creates the
// birthdays table if it does not already exist, and returns a
// ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	return Open(cfg.Storage.Path)
}

// Open is New for callers that only have a path (tests use ":memory:").
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: open db: %w", err)
	}

	// An in-memory SQLite database lives per connection; pin the pool to
	// one so every query sees the same data.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// AUTOINCREMENT (not just INTEGER PRIMARY KEY) guarantees ids are never
	// reused after a delete, matching the in-memory store.
	//
	// Schema:
	//   id          monotonically increasing, assigned by SQLite
	//   birth_date  ISO calendar date, YYYY-MM-DD
	//   email, phone, notes  optional, stored as empty strings
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS birthdays (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			birth_date TEXT NOT NULL,
			category   TEXT NOT NULL,
			email      TEXT NOT NULL DEFAULT '',
			phone      TEXT NOT NULL DEFAULT '',
			notes      TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// Seed inserts records only when the table is empty, so restarting the
// service does not duplicate the sample data.
func (s *SQLite) Seed(ctx context.Context, seed []types.BirthdayInput) (int, error) {
	var count int
	if err := s.Db.QueryRowContext(ctx, "SELECT COUNT(*) FROM birthdays").Scan(&count); err != nil {
		return 0, fmt.Errorf("Seed: count: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	for _, in := range seed {
		if _, err := s.Insert(ctx, in); err != nil {
			return 0, fmt.Errorf("Seed: %w", err)
		}
	}
	return len(seed), nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanBirthday reads one row in the column order used by every SELECT.
func scanBirthday(row rowScanner) (types.Birthday, error) {
	var (
		b        types.Birthday
		id       int64
		date     string
		category string
	)
	if err := row.Scan(&id, &b.Name, &date, &category, &b.Email, &b.Phone, &b.Notes); err != nil {
		return types.Birthday{}, err
	}
	d, err := civil.ParseDate(date)
	if err != nil {
		return types.Birthday{}, fmt.Errorf("parse birth_date %q: %w", date, err)
	}
	b.ID = strconv.FormatInt(id, 10)
	b.BirthDate = d
	b.Category = types.Category(category)
	return b, nil
}

const selectColumns = "SELECT id, name, birth_date, category, email, phone, notes FROM birthdays"

// parseID converts the string id into the integer primary key. Ids that
// are not integers can never exist in this table, so they are reported as
// not found rather than as a bad request.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q", storage.ErrNotFound, id)
	}
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// List returns all rows ordered by id, which is insertion order because
// ids only ever grow.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) List(ctx context.Context) ([]types.Birthday, error) {
	rows, err := s.Db.QueryContext(ctx, selectColumns+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("List: query: %w", err)
	}
	defer rows.Close() // must close rows to free the DB connection

	// Returning [] instead of null in JSON is better API behaviour.
	out := make([]types.Birthday, 0)
	for rows.Next() {
		b, err := scanBirthday(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan row: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows iteration: %w", err)
	}
	return out, nil
}

// Get fetches exactly one row matched by primary key.
func (s *SQLite) Get(ctx context.Context, id string) (types.Birthday, error) {
	return s.get(ctx, s.Db, id)
}

// querier lets get run either on the pool or inside a transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLite) get(ctx context.Context, q querier, id string) (types.Birthday, error) {
	n, err := parseID(id)
	if err != nil {
		return types.Birthday{}, err
	}
	b, err := scanBirthday(q.QueryRowContext(ctx, selectColumns+" WHERE id = ? LIMIT 1", n))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// sql.ErrNoRows is the sentinel for "nothing matched"; translate
			// it to the storage-level sentinel so callers stay DB-agnostic.
			return types.Birthday{}, fmt.Errorf("%w: id %q", storage.ErrNotFound, id)
		}
		return types.Birthday{}, fmt.Errorf("Get: scan: %w", err)
	}
	return b, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Insert adds a row using a prepared statement. The ? placeholders keep
// user input out of the SQL text.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Insert(ctx context.Context, in types.BirthdayInput) (types.Birthday, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO birthdays (name, birth_date, category, email, phone, notes) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return types.Birthday{}, fmt.Errorf("Insert: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		in.Name, in.BirthDate.String(), string(in.Category), in.Email, in.Phone, in.Notes)
	if err != nil {
		return types.Birthday{}, fmt.Errorf("Insert: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Birthday{}, fmt.Errorf("Insert: last insert id: %w", err)
	}

	return in.Record(strconv.FormatInt(lastID, 10)), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Update merges a partial payload. Read, merge and write happen in one
// transaction so two concurrent patches cannot overwrite each other's
// fields with stale values.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Update(ctx context.Context, id string, patch types.BirthdayPatch) (types.Birthday, error) {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return types.Birthday{}, fmt.Errorf("Update: begin: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	current, err := s.get(ctx, tx, id)
	if err != nil {
		return types.Birthday{}, err
	}
	if patch.Empty() {
		return current, nil
	}

	merged := patch.Apply(current)
	_, err = tx.ExecContext(ctx,
		"UPDATE birthdays SET name = ?, birth_date = ?, category = ?, email = ?, phone = ?, notes = ? WHERE id = ?",
		merged.Name, merged.BirthDate.String(), string(merged.Category),
		merged.Email, merged.Phone, merged.Notes, current.ID,
	)
	if err != nil {
		return types.Birthday{}, fmt.Errorf("Update: exec: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return types.Birthday{}, fmt.Errorf("Update: commit: %w", err)
	}
	return merged, nil
}

// Remove deletes a row and returns it as it was.
func (s *SQLite) Remove(ctx context.Context, id string) (types.Birthday, error) {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return types.Birthday{}, fmt.Errorf("Remove: begin: %w", err)
	}
	defer tx.Rollback()

	current, err := s.get(ctx, tx, id)
	if err != nil {
		return types.Birthday{}, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM birthdays WHERE id = ?", current.ID); err != nil {
		return types.Birthday{}, fmt.Errorf("Remove: exec: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return types.Birthday{}, fmt.Errorf("Remove: commit: %w", err)
	}
	return current, nil
}
