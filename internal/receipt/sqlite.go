package receipt

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// Seed account created on first startup so a fresh install is usable.
const (
	DefaultUsername = "admin"
	DefaultPassword = "admin123"
)

// defaultOwner is the value backfilled into user_id when migrating a
// receipts table that predates per-user records.
const defaultOwner = "admin"

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path, creates parent directories,
// runs idempotent schema init and ensures the seed user exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	if _, err := s.EnsureSeedUser(context.Background(), DefaultUsername, DefaultPassword); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring seed user: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// initSchema creates the receipt and user tables if absent. A pre-existing
// receipts table without the user_id column gets it added with the
// documented default; the migration is additive only and preserves rows.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	exists, err := s.tableExists(ctx, "receipts")
	if err != nil {
		return err
	}

	if !exists {
		_, err = s.db.ExecContext(ctx, `CREATE TABLE receipts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			vendor TEXT,
			date TEXT,
			amount REAL,
			filename TEXT,
			user_id TEXT
		)`)
		if err != nil {
			return fmt.Errorf("creating receipts table: %w", err)
		}
	} else {
		hasOwner, err := s.columnExists(ctx, "receipts", "user_id")
		if err != nil {
			return err
		}
		if !hasOwner {
			_, err = s.db.ExecContext(ctx,
				fmt.Sprintf("ALTER TABLE receipts ADD COLUMN user_id TEXT DEFAULT '%s'", defaultOwner))
			if err != nil {
				return fmt.Errorf("adding user_id column: %w", err)
			}
		}
	}

	_, err = s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE,
		password TEXT
	)`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	return nil
}

func (s *SQLiteStore) tableExists(ctx context.Context, name string) (bool, error) {
	var found string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", name,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", name, err)
	}
	return true, nil
}

func (s *SQLiteStore) columnExists(ctx context.Context, table, column string) (bool, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("reading table info for %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return false, fmt.Errorf("scanning table info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("iterating table info: %w", err)
	}
	return false, nil
}

// EnsureSeedUser inserts the user unless the username is already taken.
// The insert-or-ignore is explicit rather than a swallowed uniqueness
// violation: the existing row is looked up first.
func (s *SQLiteStore) EnsureSeedUser(ctx context.Context, username, password string) (bool, error) {
	var id int64
	err := sq.Select("id").
		From("users").
		Where(sq.Eq{"username": username}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&id)
	if err == nil {
		return true, nil
	}
	if err != sql.ErrNoRows {
		return false, fmt.Errorf("looking up seed user: %w", err)
	}

	_, err = sq.Insert("users").
		Columns("username", "password").
		Values(username, password).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("inserting seed user: %w", err)
	}
	return false, nil
}

// InsertReceipt appends one record and populates its assigned ID.
func (s *SQLiteStore) InsertReceipt(ctx context.Context, r *Receipt) error {
	res, err := sq.Insert("receipts").
		Columns("vendor", "date", "amount", "filename", "user_id").
		Values(r.Vendor, r.Date, r.Amount, r.Filename, r.UserID).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("inserting receipt: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading assigned id: %w", err)
	}
	r.ID = id
	return nil
}

// ListReceipts returns all of a user's records ordered by id, which is
// insertion order, so downstream sorting stays deterministic.
func (s *SQLiteStore) ListReceipts(ctx context.Context, userID string) ([]Receipt, error) {
	rows, err := sq.Select("id", "vendor", "date", "amount", "filename", "user_id").
		From("receipts").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	defer rows.Close()

	receipts := make([]Receipt, 0)
	for rows.Next() {
		var r Receipt
		if err := rows.Scan(&r.ID, &r.Vendor, &r.Date, &r.Amount, &r.Filename, &r.UserID); err != nil {
			return nil, fmt.Errorf("scanning receipt: %w", err)
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating receipts: %w", err)
	}
	return receipts, nil
}

// CountReceipts returns the number of records a user has.
func (s *SQLiteStore) CountReceipts(ctx context.Context, userID string) (int, error) {
	var count int
	err := sq.Select("COUNT(*)").
		From("receipts").
		Where(sq.Eq{"user_id": userID}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting receipts: %w", err)
	}
	return count, nil
}

// FindUser reports whether a row matches the exact username/password pair.
// Passwords are stored and compared as plain text.
func (s *SQLiteStore) FindUser(ctx context.Context, username, password string) (bool, error) {
	var id int64
	err := sq.Select("id").
		From("users").
		Where(sq.Eq{"username": username, "password": password}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("finding user: %w", err)
	}
	return true, nil
}
