package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MrSnakeDoc/urltodo/internal/domain"

	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Store persists records in a single SQLite table.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and initializes the schema.
// Use MemoryDSN for a throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, &domain.StorageError{Op: "open", Err: fmt.Errorf("failed to create directory: %w", err)}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &domain.StorageError{Op: "open", Err: err}
	}

	// One long-lived connection: an in-memory database only exists on the
	// connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &domain.StorageError{Op: "open", Err: err}
	}

	s := &Store{db: db}
	if err := s.Initialize(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Initialize creates the table and its indexes if absent. Safe to call repeatedly.
func (s *Store) Initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return &domain.StorageError{Op: "initialize", Err: err}
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Exists reports whether url is already stored.
func (s *Store) Exists(ctx context.Context, url string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM urls WHERE url = ?`, url).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, &domain.StorageError{Op: "exists", Err: err}
	}
	return true, nil
}

// Add inserts a new unread record and returns its id.
// A URL that is already stored yields domain.ErrDuplicateURL.
func (s *Store) Add(ctx context.Context, url, description, category string) (int64, error) {
	exists, err := s.Exists(ctx, url)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("%w: %s", domain.ErrDuplicateURL, url)
	}

	// The UNIQUE constraint still guards against a writer that slipped in
	// between the check and the insert.
	query := `INSERT INTO urls (url, description, category, status)
              VALUES (?, ?, ?, 0)
              ON CONFLICT (url) DO NOTHING
              RETURNING id`

	var id int64
	err = s.db.QueryRowContext(ctx, query, url, description, category).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", domain.ErrDuplicateURL, url)
		}
		return 0, &domain.StorageError{Op: "add", Err: err}
	}
	return id, nil
}

// UpdateStatus sets the read flag of one record.
func (s *Store) UpdateStatus(ctx context.Context, id int64, read bool) error {
	return s.Update(ctx, id, domain.Patch{Read: &read})
}

// UpdateDescription replaces the description of one record.
func (s *Store) UpdateDescription(ctx context.Context, id int64, description string) error {
	return s.Update(ctx, id, domain.Patch{Description: &description})
}

// Update applies a partial update. An empty patch only checks that id exists.
func (s *Store) Update(ctx context.Context, id int64, patch domain.Patch) error {
	if patch.Empty() {
		_, err := s.Get(ctx, id)
		return err
	}

	query := `UPDATE urls SET description = COALESCE(?, description), status = COALESCE(?, status) WHERE id = ?`

	var desc, status any
	if patch.Description != nil {
		desc = *patch.Description
	}
	if patch.Read != nil {
		status = boolToInt(*patch.Read)
	}

	res, err := s.db.ExecContext(ctx, query, desc, status, id)
	if err != nil {
		return &domain.StorageError{Op: "update", Err: err}
	}
	return checkAffected(res, "update", id)
}

// Delete removes one record.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM urls WHERE id = ?`, id)
	if err != nil {
		return &domain.StorageError{Op: "delete", Err: err}
	}
	return checkAffected(res, "delete", id)
}

// Get returns one record by id.
func (s *Store) Get(ctx context.Context, id int64) (*domain.Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
		}
		return nil, &domain.StorageError{Op: "get", Err: err}
	}
	return rec, nil
}

// FetchAll returns every record in id order.
func (s *Store) FetchAll(ctx context.Context) ([]*domain.Record, error) {
	return s.query(ctx, "fetch all", selectColumns+` ORDER BY id`)
}

// FetchByStatus returns read or unread records.
func (s *Store) FetchByStatus(ctx context.Context, read bool) ([]*domain.Record, error) {
	return s.query(ctx, "fetch by status", selectColumns+` WHERE status = ? ORDER BY id`, boolToInt(read))
}

// FetchByCategory returns records whose category equals category exactly.
func (s *Store) FetchByCategory(ctx context.Context, category string) ([]*domain.Record, error) {
	return s.query(ctx, "fetch by category", selectColumns+` WHERE category = ? ORDER BY id`, category)
}

// FetchByTimeRange returns records created between start and end, both inclusive.
func (s *Store) FetchByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.Record, error) {
	return s.query(ctx, "fetch by time range",
		selectColumns+` WHERE timestamp BETWEEN ? AND ? ORDER BY id`,
		start.UTC().Format(timestampLayout), end.UTC().Format(timestampLayout))
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM urls`).Scan(&n); err != nil {
		return 0, &domain.StorageError{Op: "count", Err: err}
	}
	return n, nil
}

// Stats counts records per status.
func (s *Store) Stats(ctx context.Context) (domain.Stats, error) {
	var st domain.Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(status), 0) FROM urls`).Scan(&st.Total, &st.Read)
	if err != nil {
		return domain.Stats{}, &domain.StorageError{Op: "stats", Err: err}
	}
	st.Unread = st.Total - st.Read
	return st, nil
}

func (s *Store) query(ctx context.Context, op, query string, args ...any) ([]*domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: op, Err: err}
	}
	defer rows.Close()

	records := make([]*domain.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: op, Err: fmt.Errorf("failed to scan row: %w", err)}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: op, Err: err}
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.Record, error) {
	var (
		rec domain.Record
		ts  timestamp
	)
	if err := row.Scan(&rec.ID, &rec.URL, &rec.Description, &rec.Category, &rec.Read, &ts); err != nil {
		return nil, err
	}
	rec.Timestamp = ts.Time
	return &rec, nil
}

func checkAffected(res sql.Result, op string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return &domain.StorageError{Op: op, Err: err}
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
