package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mr1hm/go-hazard-watch/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// SQLite serialises writers anyway, and ":memory:" is per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash BLOB NOT NULL,
			role TEXT NOT NULL,
			organization TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS watched_locations (
			id TEXT PRIMARY KEY,
			city TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_watched_locations_created_at ON watched_locations(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) CreateAccount(ctx context.Context, a *models.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, first_name, last_name, email, password_hash, role, organization, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.FirstName, a.LastName, normalizeEmail(a.Email), a.PasswordHash,
		a.Role, a.Organization, a.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("error inserting account: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, role, organization, created_at
		FROM accounts WHERE email = ?`, normalizeEmail(email))

	var a models.Account
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &a.Role, &a.Organization, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning account: %w", err)
	}
	return &a, nil
}

func (s *SQLiteDB) AddWatch(ctx context.Context, w *models.WatchedLocation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO watched_locations (id, city, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		w.ID, w.City, w.Coordinate.Lat, w.Coordinate.Lon, w.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("error inserting watched location: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetWatch(ctx context.Context, id string) (*models.WatchedLocation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, city, latitude, longitude, created_at
		FROM watched_locations WHERE id = ?`, id)

	w, err := scanWatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning watched location: %w", err)
	}
	return w, nil
}

func (s *SQLiteDB) ListWatches(ctx context.Context) ([]models.WatchedLocation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, city, latitude, longitude, created_at
		FROM watched_locations ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying watched locations: %w", err)
	}
	defer rows.Close()

	watches := []models.WatchedLocation{}
	for rows.Next() {
		w, err := scanWatch(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning watched location: %w", err)
		}
		watches = append(watches, *w)
	}
	return watches, rows.Err()
}

func (s *SQLiteDB) RemoveWatch(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM watched_locations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting watched location: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWatch(row scanner) (*models.WatchedLocation, error) {
	var w models.WatchedLocation
	if err := row.Scan(&w.ID, &w.City, &w.Coordinate.Lat, &w.Coordinate.Lon, &w.CreatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
	}
	return false
}
