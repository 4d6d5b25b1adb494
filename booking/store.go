/*
store.go - Persistence contracts for reservations and users

PURPOSE:
  Defines the interface between the allocation engine and the record store.
  The Ledger is the single authoritative home of the Reservation set; the
  engine holds no reservation state of its own and recomputes occupancy and
  quota by querying the Ledger on every request.

KEY INTERFACES:
  Ledger:    Reservation persistence (insert, remove, find, count)
  UserStore: User directory persistence (simple CRUD)
  Resetter:  Optional wipe-everything capability for demo scenarios

MUTATION CONTRACT:
  All mutating operations are durable before returning success. A Reservation
  is never updated in place: it is inserted exactly once and removed exactly
  once. Insert signals ErrDuplicateID on an id collision; removals signal
  ErrNotFound when nothing matches.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite store
  - booking/store/memory.go: In-memory store for testing/dev

SEE ALSO:
  - engine.go: The only writer of reservations
*/
package booking

import "context"

// =============================================================================
// LEDGER - Authoritative reservation store
// =============================================================================

// Ledger is the source of truth for reservations.
//
// Query results carry no ordering guarantee; callers sort. Individual
// reservations are immutable once inserted, so concurrent readers never
// observe a torn record.
type Ledger interface {
	// Insert persists a reservation. Returns ErrDuplicateID if a reservation
	// with the same id already exists.
	Insert(ctx context.Context, r Reservation) error

	// Remove deletes by id. Returns ErrNotFound if absent.
	Remove(ctx context.Context, id ReservationID) error

	// RemoveByUserAndDate deletes the single reservation matching
	// (userID, date). Returns ErrNotFound if absent.
	RemoveByUserAndDate(ctx context.Context, userID UserID, date Date) error

	// FindByID returns the reservation or nil if absent.
	FindByID(ctx context.Context, id ReservationID) (*Reservation, error)

	// FindByUser returns all reservations owned by the user.
	FindByUser(ctx context.Context, userID UserID) ([]Reservation, error)

	// FindByDate returns all reservations for the date.
	FindByDate(ctx context.Context, date Date) ([]Reservation, error)

	// FindAll returns every reservation.
	FindAll(ctx context.Context) ([]Reservation, error)

	// Count returns the number of reservations for the date (occupancy).
	Count(ctx context.Context, date Date) (int, error)
}

// =============================================================================
// USER STORE - Directory persistence
// =============================================================================

// UserStore persists directory records. Save is an upsert; the booking
// engine never writes users, only the profile API does.
type UserStore interface {
	// SaveUser inserts or replaces a user record.
	SaveUser(ctx context.Context, u User) error

	// GetUser returns the user or nil if absent.
	GetUser(ctx context.Context, id UserID) (*User, error)

	// ListUsers returns all users.
	ListUsers(ctx context.Context) ([]User, error)

	// DeleteUser removes a user. Returns ErrNotFound if absent.
	// Existing reservations keep their denormalized user name.
	DeleteUser(ctx context.Context, id UserID) error
}

// =============================================================================
// RESETTER - Demo/dev support
// =============================================================================

// Resetter wipes all stored data. Implemented by both stores; only the demo
// scenario loader uses it.
type Resetter interface {
	Reset(ctx context.Context) error
}
