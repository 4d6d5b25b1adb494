/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements booking.Ledger and booking.UserStore using SQLite. In production
  the same patterns apply to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  booking.Ledger:    Reservation persistence
  booking.UserStore: User directory persistence
  booking.Resetter:  Full wipe for demo scenarios

KEY TABLES:
  reservations: The authoritative reservation set
  users:        Directory records

INDEXES:
  idx_reservations_user_date: UNIQUE - a user holds at most one desk per day.
    The engine enforces this under its locks; the index is the durable backstop.
  idx_reservations_date_desk: UNIQUE - a desk number is held once per day.
  idx_reservations_date / idx_reservations_user: occupancy and quota queries.

DURABILITY:
  Every mutating call returns only after the statement committed. There are
  no partial writes to hide: a reservation is a single row, inserted once and
  deleted once, never updated.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety around the handle. WAL mode keeps
  readers from blocking the single writer.

USAGE:
  store, err := sqlite.New("./data/desks.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := booking.NewEngine(store, booking.NewDirectory(store), booking.DefaultLimits())

SEE ALSO:
  - booking/store.go: Interface definitions
  - booking/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/treaty/desk-engine/booking"
)

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reservations (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		user_name TEXT NOT NULL,
		date TEXT NOT NULL,
		desk_number INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	-- A user holds at most one desk per day.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_user_date
		ON reservations(user_id, date);

	-- A desk number is assigned at most once per day.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_date_desk
		ON reservations(date, desk_number);

	-- Occupancy counts (hot path for every admission)
	CREATE INDEX IF NOT EXISTS idx_reservations_date
		ON reservations(date);

	-- Quota window queries
	CREATE INDEX IF NOT EXISTS idx_reservations_user
		ON reservations(user_id);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		avatar TEXT,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LEDGER
// =============================================================================

// Insert persists a reservation. Returns booking.ErrDuplicateID if a
// reservation with the same id already exists.
func (s *Store) Insert(ctx context.Context, r booking.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM reservations WHERE id = ?", string(r.ID),
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return booking.ErrDuplicateID
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reservations (id, user_id, user_name, date, desk_number, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(r.ID), string(r.UserID), r.UserName, string(r.Date), r.DeskNumber,
		r.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert reservation %s: %w", r.ID, err)
	}
	return nil
}

// Remove deletes a reservation by id.
func (s *Store) Remove(ctx context.Context, id booking.ReservationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM reservations WHERE id = ?", string(id))
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// RemoveByUserAndDate deletes the reservation matching (userID, date).
func (s *Store) RemoveByUserAndDate(ctx context.Context, userID booking.UserID, date booking.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM reservations WHERE user_id = ? AND date = ?",
		string(userID), string(date))
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return booking.ErrNotFound
	}
	return nil
}

// FindByID returns a reservation or nil if absent.
func (s *Store) FindByID(ctx context.Context, id booking.ReservationID) (*booking.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, user_name, date, desk_number, created_at
		 FROM reservations WHERE id = ?`, string(id))

	r, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// FindByUser returns all reservations owned by the user.
func (s *Store) FindByUser(ctx context.Context, userID booking.UserID) ([]booking.Reservation, error) {
	return s.queryReservations(ctx,
		`SELECT id, user_id, user_name, date, desk_number, created_at
		 FROM reservations WHERE user_id = ?`, string(userID))
}

// FindByDate returns all reservations for the date.
func (s *Store) FindByDate(ctx context.Context, date booking.Date) ([]booking.Reservation, error) {
	return s.queryReservations(ctx,
		`SELECT id, user_id, user_name, date, desk_number, created_at
		 FROM reservations WHERE date = ? ORDER BY desk_number`, string(date))
}

// FindAll returns every reservation.
func (s *Store) FindAll(ctx context.Context) ([]booking.Reservation, error) {
	return s.queryReservations(ctx,
		`SELECT id, user_id, user_name, date, desk_number, created_at
		 FROM reservations ORDER BY date, desk_number`)
}

// Count returns the number of reservations for the date.
func (s *Store) Count(ctx context.Context, date booking.Date) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM reservations WHERE date = ?", string(date),
	).Scan(&count)
	return count, err
}

func (s *Store) queryReservations(ctx context.Context, query string, args ...any) ([]booking.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []booking.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *r)
	}
	return reservations, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReservation(row scanner) (*booking.Reservation, error) {
	var r booking.Reservation
	var id, userID, date, createdAt string
	if err := row.Scan(&id, &userID, &r.UserName, &date, &r.DeskNumber, &createdAt); err != nil {
		return nil, err
	}
	r.ID = booking.ReservationID(id)
	r.UserID = booking.UserID(userID)
	r.Date = booking.Date(date)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &r, nil
}

// =============================================================================
// USER STORE
// =============================================================================

// SaveUser inserts or replaces a user record.
func (s *Store) SaveUser(ctx context.Context, u booking.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, avatar, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email, avatar = excluded.avatar`,
		string(u.ID), u.Name, u.Email, u.Avatar, createdAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetUser returns a user or nil if absent.
func (s *Store) GetUser(ctx context.Context, id booking.UserID) (*booking.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u booking.User
	var uid, createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, avatar, created_at FROM users WHERE id = ?",
		string(id),
	).Scan(&uid, &u.Name, &u.Email, &u.Avatar, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.ID = booking.UserID(uid)
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &u, nil
}

// ListUsers returns all users ordered by name.
func (s *Store) ListUsers(ctx context.Context) ([]booking.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, avatar, created_at FROM users ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []booking.User
	for rows.Next() {
		var u booking.User
		var uid, createdAt string
		if err := rows.Scan(&uid, &u.Name, &u.Email, &u.Avatar, &createdAt); err != nil {
			return nil, err
		}
		u.ID = booking.UserID(uid)
		u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteUser removes a user record. Reservations are not cascaded; they keep
// the denormalized name captured at admission.
func (s *Store) DeleteUser(ctx context.Context, id booking.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM users WHERE id = ?", string(id))
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// =============================================================================
// RESETTER
// =============================================================================

// Reset drops all reservations and users. Demo/dev only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM reservations"); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM users")
	return err
}
