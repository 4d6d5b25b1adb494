/*
Package booking provides the desk booking allocation engine.

PURPOSE:
  This package contains the core types and algorithms for allocating a fixed
  pool of shared desks to users, one desk per user per calendar day. It owns
  the invariants that make the system correct: per-day capacity, per-user
  weekly quota, no double-booking, and stable desk numbering.

KEY CONCEPTS IN THIS FILE (types.go):
  - Reservation: One user's claim on one desk for one calendar day
  - Limits: Capacity and quota configuration (desks per day, bookings per week)
  - Directory: The user-existence/name-resolution collaborator
  - User: A directory record (profile CRUD is simple field mapping)

DESIGN PRINCIPLES:
  1. Immutability: Reservations are never edited, only created and canceled
  2. Single source of truth: The Ledger owns all reservation state; the
     engine recomputes occupancy and quota on every request
  3. Type Safety: Strong typing for ids prevents mixing user/reservation ids
  4. Denormalization: UserName is captured at admission and never re-synced

USAGE:
  ledger := store.NewMemory()
  engine := booking.NewEngine(ledger, booking.NewDirectory(ledger), booking.DefaultLimits())
  res, err := engine.Admit(ctx, "user-1", booking.Date("2025-01-06"), time.Now())

SEE ALSO:
  - engine.go: Admission, cancellation, and the locking discipline
  - store.go: Ledger persistence contract
  - quota.go: Weekly quota and occupancy calculations
*/
package booking

import (
	"context"
	"time"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ReservationID string
type UserID string

// =============================================================================
// RESERVATION - One desk assignment, immutable once created
// =============================================================================

// Reservation is a user's claim on one desk for one calendar day.
//
// All fields are immutable after creation. Corrections are made by canceling
// and re-admitting, never by editing. UserName is the display name the user
// had at admission time; it is deliberately not updated on later renames.
type Reservation struct {
	ID         ReservationID
	UserID     UserID
	UserName   string
	Date       Date
	DeskNumber int
	CreatedAt  time.Time
}

// =============================================================================
// LIMITS - Capacity and quota configuration
// =============================================================================

// Limits carries the allocation constants. They are configuration, not
// literals scattered through the engine.
type Limits struct {
	// MaxDesksPerDay caps the number of reservations per calendar day.
	MaxDesksPerDay int

	// MaxBookingsPerWeek caps a user's reservations inside the rolling window.
	MaxBookingsPerWeek int

	// WeekWindowDays is the length of the rolling quota window in days.
	WeekWindowDays int
}

// DefaultLimits returns the production configuration: 15 desks, 2 bookings
// per rolling 7-day window.
func DefaultLimits() Limits {
	return Limits{
		MaxDesksPerDay:     15,
		MaxBookingsPerWeek: 2,
		WeekWindowDays:     7,
	}
}

// =============================================================================
// USER DIRECTORY - The engine's only external collaborator
// =============================================================================

// User is a directory record. Profile fields are plain data; the engine only
// ever reads Name at admission time.
type User struct {
	ID        UserID
	Name      string
	Email     string
	Avatar    string
	CreatedAt time.Time
}

// Directory resolves user existence and display names. Lookups are
// authoritative at call time; the engine never caches directory answers.
type Directory interface {
	// Exists reports whether the user is known to the directory.
	Exists(ctx context.Context, id UserID) (bool, error)

	// NameOf returns the user's current display name.
	// Returns ErrUserNotFound if the user does not exist.
	NameOf(ctx context.Context, id UserID) (string, error)
}

// storeDirectory adapts a UserStore into the Directory contract.
type storeDirectory struct {
	users UserStore
}

// NewDirectory returns a Directory backed by a UserStore.
func NewDirectory(users UserStore) Directory {
	return &storeDirectory{users: users}
}

func (d *storeDirectory) Exists(ctx context.Context, id UserID) (bool, error) {
	u, err := d.users.GetUser(ctx, id)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

func (d *storeDirectory) NameOf(ctx context.Context, id UserID) (string, error) {
	u, err := d.users.GetUser(ctx, id)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrUserNotFound
	}
	return u.Name, nil
}
