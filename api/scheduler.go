/*
scheduler.go - Retention sweeper for stale reservations

PURPOSE:
  Periodically deletes reservations whose date lies further in the past than
  the retention horizon. Past reservations can never affect capacity or quota
  decisions again, so sweeping them keeps the ledger small.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Deletes only dates strictly older than today minus the horizon
  - A horizon <= 0 disables the sweeper entirely
  - Malformed date tokens are left alone (they are capacity-relevant only
    for their own token and harmless to keep)

USAGE:
  sweeper := NewRetentionSweeper(ledger, 90)
  sweeper.Start()
  // ... later
  sweeper.Stop()

SEE ALSO:
  - cmd/server/main.go: Wires the sweeper behind the -retention-days flag
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/treaty/desk-engine/booking"
)

// RetentionSweeper deletes reservations older than the retention horizon.
type RetentionSweeper struct {
	Ledger        booking.Ledger
	HorizonDays   int
	CheckInterval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRetentionSweeper creates a sweeper with a 24h check interval.
func NewRetentionSweeper(ledger booking.Ledger, horizonDays int) *RetentionSweeper {
	return &RetentionSweeper{
		Ledger:        ledger,
		HorizonDays:   horizonDays,
		CheckInterval: 24 * time.Hour,
		stop:          make(chan struct{}),
	}
}

// Start begins the sweeper.
func (rs *RetentionSweeper) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.HorizonDays <= 0 {
		log.Println("[Sweeper] Disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)

	go rs.run()

	log.Printf("[Sweeper] Started with horizon %d days, interval %v", rs.HorizonDays, rs.CheckInterval)
}

// Stop stops the sweeper.
func (rs *RetentionSweeper) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		log.Println("[Sweeper] Stopped")
	}
}

func (rs *RetentionSweeper) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.Sweep(context.Background(), time.Now())

	for {
		select {
		case <-rs.ticker.C:
			rs.Sweep(context.Background(), time.Now())
		case <-rs.stop:
			return
		}
	}
}

// Sweep deletes reservations dated strictly before now minus the horizon.
// Returns the number removed.
func (rs *RetentionSweeper) Sweep(ctx context.Context, now time.Time) int {
	cutoff := booking.DayOf(now).AddDate(0, 0, -rs.HorizonDays)

	reservations, err := rs.Ledger.FindAll(ctx)
	if err != nil {
		log.Printf("[Sweeper] Failed to list reservations: %v", err)
		return 0
	}

	removed := 0
	for _, r := range reservations {
		day, ok := r.Date.Day()
		if !ok || !day.Before(cutoff) {
			continue
		}
		if err := rs.Ledger.Remove(ctx, r.ID); err != nil {
			log.Printf("[Sweeper] Failed to remove %s: %v", r.ID, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("[Sweeper] Removed %d reservations older than %s", removed, cutoff.Format("2006-01-02"))
	}
	return removed
}
