/*
engine.go - The desk allocation engine

PURPOSE:
  Accepts booking requests, validates them against the current ledger state,
  assigns desk numbers, and commits or rejects atomically. This is the only
  component in the system with real correctness risk: without exclusion, two
  concurrent admissions can both observe occupancy 14 and both take desk 15,
  or both observe a weekly count of 1 and admit a third booking.

VALIDATION ORDER (first failing check wins):
  0. UserNotFound       - directory lookup, before everything else
  1. AlreadyBookedThisDay - duplicate (user, date)
  2. WeeklyQuotaExceeded  - rolling window count at the limit
  3. DeskCapacityExceeded - date at desk capacity

LOCKING:
  Admit must make its read-validate-write sequence atomic with respect to
  other admissions and cancellations touching the same date (capacity) or the
  same user (quota, duplicate-day). The engine keeps a table of keyed
  mutexes: one per date, one per user, always acquired date first, then user,
  so two admissions can never deadlock against each other. Cancellations take
  the same two locks as the record they remove. Pure reads take no locks;
  reservations are immutable once inserted so readers never see torn records.

DESK NUMBERING:
  The next desk is occupancy+1, walked upward past any number still held for
  the date. A fresh date therefore hands out 1, 2, 3, ... in admission order.
  After cancellations, freed numbers are not reused while a higher number is
  unassigned; numbering resumes above the survivors.

ID GENERATION:
  Reservation ids are random UUIDs. If the ledger reports a collision the
  engine retries with a fresh id instead of surfacing ErrDuplicateID.

SEE ALSO:
  - quota.go: WeeklyCount / Occupancy
  - store.go: Ledger contract
  - errors.go: Rejection taxonomy
*/
package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// insertAttempts bounds id-collision retries inside Admit.
const insertAttempts = 3

// =============================================================================
// ENGINE
// =============================================================================

// Engine allocates desks. It is stateless between calls: every admission
// recomputes occupancy and quota from the ledger.
type Engine struct {
	ledger    Ledger
	directory Directory
	limits    Limits
	locks     lockTable
}

// NewEngine creates an allocation engine over the given ledger and user
// directory.
func NewEngine(ledger Ledger, directory Directory, limits Limits) *Engine {
	return &Engine{
		ledger:    ledger,
		directory: directory,
		limits:    limits,
	}
}

// Limits returns the engine's configured limits.
func (e *Engine) Limits() Limits { return e.limits }

// =============================================================================
// ADMISSION
// =============================================================================

// Admit validates and commits a booking for (userID, date). ref is the
// reference instant for the weekly quota window; one admission uses exactly
// one ref so repeated quota checks agree.
//
// On success the committed reservation is returned, with UserName resolved
// from the directory at admission time. On rejection the ledger is unchanged
// and a typed error from errors.go is returned.
func (e *Engine) Admit(ctx context.Context, userID UserID, date Date, ref time.Time) (*Reservation, error) {
	// Directory lookup happens before any booking validation and outside the
	// critical section: it does not read the ledger.
	ok, err := e.directory.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	userName, err := e.directory.NameOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlock := e.locks.acquire(date, userID)
	defer unlock()

	// 1. Duplicate (user, date)
	existing, err := e.ledger.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.Date == date {
			return nil, &AlreadyBookedError{UserID: userID, Date: date}
		}
	}

	// 2. Weekly quota
	weekly, err := WeeklyCount(ctx, e.ledger, userID, ref, e.limits.WeekWindowDays)
	if err != nil {
		return nil, err
	}
	if weekly >= e.limits.MaxBookingsPerWeek {
		return nil, &QuotaExceededError{UserID: userID, Count: weekly, Limit: e.limits.MaxBookingsPerWeek}
	}

	// 3. Capacity
	occupied, err := Occupancy(ctx, e.ledger, date)
	if err != nil {
		return nil, err
	}
	if occupied >= e.limits.MaxDesksPerDay {
		return nil, &CapacityExceededError{Date: date, Count: occupied, Limit: e.limits.MaxDesksPerDay}
	}

	desk, err := e.nextDesk(ctx, date, occupied)
	if err != nil {
		return nil, err
	}

	r := Reservation{
		UserID:     userID,
		UserName:   userName,
		Date:       date,
		DeskNumber: desk,
		CreatedAt:  ref,
	}
	for attempt := 0; attempt < insertAttempts; attempt++ {
		r.ID = ReservationID(uuid.NewString())
		err = e.ledger.Insert(ctx, r)
		if err == nil {
			return &r, nil
		}
		if !errors.Is(err, ErrDuplicateID) {
			return nil, err
		}
	}
	return nil, err
}

// nextDesk returns the lowest desk number >= occupied+1 not currently held
// for the date. The walk only matters after cancellations left a gap below a
// still-assigned higher number.
func (e *Engine) nextDesk(ctx context.Context, date Date, occupied int) (int, error) {
	sameDay, err := e.ledger.FindByDate(ctx, date)
	if err != nil {
		return 0, err
	}
	held := make(map[int]bool, len(sameDay))
	for _, r := range sameDay {
		held[r.DeskNumber] = true
	}

	desk := occupied + 1
	for held[desk] {
		desk++
	}
	return desk, nil
}

// =============================================================================
// CANCELLATION
// =============================================================================

// Cancel removes a reservation by id. Returns ErrNotFound if no reservation
// matches. The freed capacity and quota headroom are visible to the next
// Admit; other desks for that day are not renumbered.
func (e *Engine) Cancel(ctx context.Context, id ReservationID) error {
	r, err := e.ledger.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	unlock := e.locks.acquire(r.Date, r.UserID)
	defer unlock()
	return e.ledger.Remove(ctx, id)
}

// CancelByUserAndDate removes the reservation matching (userID, date).
// Returns ErrNotFound if none matches.
func (e *Engine) CancelByUserAndDate(ctx context.Context, userID UserID, date Date) error {
	unlock := e.locks.acquire(date, userID)
	defer unlock()
	return e.ledger.RemoveByUserAndDate(ctx, userID, date)
}

// =============================================================================
// QUERY SURFACE - Pure reads, no locks
// =============================================================================

// Get returns a reservation by id, or ErrNotFound.
func (e *Engine) Get(ctx context.Context, id ReservationID) (*Reservation, error) {
	r, err := e.ledger.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, nil
}

// ListAll returns every reservation sorted by date ascending.
func (e *Engine) ListAll(ctx context.Context) ([]Reservation, error) {
	reservations, err := e.ledger.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(reservations, func(i, j int) bool {
		if reservations[i].Date != reservations[j].Date {
			return reservations[i].Date < reservations[j].Date
		}
		return reservations[i].DeskNumber < reservations[j].DeskNumber
	})
	return reservations, nil
}

// ListByUser returns a user's reservations sorted by date ascending.
func (e *Engine) ListByUser(ctx context.Context, userID UserID) ([]Reservation, error) {
	reservations, err := e.ledger.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(reservations, func(i, j int) bool {
		return reservations[i].Date < reservations[j].Date
	})
	return reservations, nil
}

// ListByDate returns a date's reservations sorted by desk number ascending.
func (e *Engine) ListByDate(ctx context.Context, date Date) ([]Reservation, error) {
	reservations, err := e.ledger.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	sort.Slice(reservations, func(i, j int) bool {
		return reservations[i].DeskNumber < reservations[j].DeskNumber
	})
	return reservations, nil
}

// =============================================================================
// LOCK TABLE - Keyed mutexes for dates and users
// =============================================================================

// lockTable hands out one mutex per date and one per user. Entries are never
// evicted; the table is bounded by the distinct dates and users seen, which
// is small at this scale (tens of desks, not thousands).
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// acquire locks the date mutex then the user mutex and returns the matching
// unlock. The fixed date-then-user order prevents deadlock between
// admissions and cancellations.
func (lt *lockTable) acquire(date Date, userID UserID) func() {
	dl := lt.get("date:" + string(date))
	ul := lt.get("user:" + string(userID))
	dl.Lock()
	ul.Lock()
	return func() {
		ul.Unlock()
		dl.Unlock()
	}
}

func (lt *lockTable) get(key string) *sync.Mutex {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if lt.locks == nil {
		lt.locks = make(map[string]*sync.Mutex)
	}
	l, ok := lt.locks[key]
	if !ok {
		l = &sync.Mutex{}
		lt.locks[key] = l
	}
	return l
}
