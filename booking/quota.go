package booking

import (
	"context"
	"time"
)

// =============================================================================
// QUOTA / CAPACITY CHECKERS - Pure calculations over the ledger
// =============================================================================

// WeeklyCount returns the number of the user's reservations whose date falls
// in the rolling window [UTC day of ref, +windowDays days).
//
// The comparison is calendar-day against calendar-day, never instant against
// instant. A stored date token that does not parse as a calendar day is
// excluded from the count, not treated as an error. Callers must use a single
// ref per admission decision so repeated checks agree.
func WeeklyCount(ctx context.Context, ledger Ledger, userID UserID, ref time.Time, windowDays int) (int, error) {
	reservations, err := ledger.FindByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	start, end := Window(ref, windowDays)
	count := 0
	for _, r := range reservations {
		if r.Date.InWindow(start, end) {
			count++
		}
	}
	return count, nil
}

// Occupancy returns the number of reservations for the date.
func Occupancy(ctx context.Context, ledger Ledger, date Date) (int, error) {
	return ledger.Count(ctx, date)
}
