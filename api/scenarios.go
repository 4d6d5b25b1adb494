/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic data
	for demos. Each scenario resets the store, seeds users, and admits
	bookings through the engine, so the seeded data always satisfies the
	allocation invariants.

AVAILABLE SCENARIOS:

	small-team:   Five users with a few bookings across the current week
	busy-day:     Today at full desk capacity
	quota-limits: One user at the weekly quota, one with headroom

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "busy-day"}

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler context and response helpers
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/treaty/desk-engine/booking"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "small-team",
		Name:        "Small Team",
		Description: "Five users with scattered bookings across the current week",
	},
	{
		ID:          "busy-day",
		Name:        "Busy Day",
		Description: "Today fully booked: every desk taken, next admission rejected",
	},
	{
		ID:          "quota-limits",
		Name:        "Quota Limits",
		Description: "One user at the weekly booking quota, one with headroom",
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns all available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the id of the most recently loaded scenario.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": h.currentScenario})
}

// LoadScenario resets the store and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "small-team":
		err = h.loadSmallTeamScenario(ctx)
	case "busy-day":
		err = h.loadBusyDayScenario(ctx)
	case "quota-limits":
		err = h.loadQuotaLimitsScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario_id": req.ScenarioID})
}

// ResetDatabase wipes all stored data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) reset(ctx context.Context) error {
	resetter, ok := h.Ledger.(booking.Resetter)
	if !ok {
		return fmt.Errorf("store does not support reset")
	}
	return resetter.Reset(ctx)
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) seedUsers(ctx context.Context, users []booking.User) error {
	for _, u := range users {
		if err := h.Users.SaveUser(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

// loadSmallTeamScenario seeds five users with a handful of bookings spread
// over the current week.
func (h *Handler) loadSmallTeamScenario(ctx context.Context) error {
	users := []booking.User{
		{ID: "alice", Name: "Alice Chen", Email: "alice@example.com"},
		{ID: "bob", Name: "Bob Martinez", Email: "bob@example.com"},
		{ID: "carol", Name: "Carol White", Email: "carol@example.com"},
		{ID: "dave", Name: "Dave Kim", Email: "dave@example.com"},
		{ID: "erin", Name: "Erin Patel", Email: "erin@example.com"},
	}
	if err := h.seedUsers(ctx, users); err != nil {
		return err
	}

	now := time.Now()
	today := booking.NewDate(now)
	tomorrow := booking.NewDate(now.AddDate(0, 0, 1))
	dayAfter := booking.NewDate(now.AddDate(0, 0, 2))

	admissions := []struct {
		user booking.UserID
		date booking.Date
	}{
		{"alice", today},
		{"bob", today},
		{"carol", today},
		{"alice", dayAfter},
		{"dave", tomorrow},
		{"erin", tomorrow},
	}
	for _, a := range admissions {
		if _, err := h.Engine.Admit(ctx, a.user, a.date, now); err != nil {
			return err
		}
	}
	return nil
}

// loadBusyDayScenario fills today to capacity.
func (h *Handler) loadBusyDayScenario(ctx context.Context) error {
	now := time.Now()
	today := booking.NewDate(now)
	limit := h.Engine.Limits().MaxDesksPerDay

	for i := 1; i <= limit; i++ {
		u := booking.User{
			ID:    booking.UserID(fmt.Sprintf("user-%02d", i)),
			Name:  fmt.Sprintf("Demo User %d", i),
			Email: fmt.Sprintf("user%02d@example.com", i),
		}
		if err := h.Users.SaveUser(ctx, u); err != nil {
			return err
		}
		if _, err := h.Engine.Admit(ctx, u.ID, today, now); err != nil {
			return err
		}
	}
	return nil
}

// loadQuotaLimitsScenario puts one user at the weekly quota and gives another
// one booking of headroom.
func (h *Handler) loadQuotaLimitsScenario(ctx context.Context) error {
	users := []booking.User{
		{ID: "maxed", Name: "Max Bookings", Email: "maxed@example.com"},
		{ID: "light", Name: "Light Booker", Email: "light@example.com"},
	}
	if err := h.seedUsers(ctx, users); err != nil {
		return err
	}

	now := time.Now()
	quota := h.Engine.Limits().MaxBookingsPerWeek
	for i := 0; i < quota; i++ {
		date := booking.NewDate(now.AddDate(0, 0, i))
		if _, err := h.Engine.Admit(ctx, "maxed", date, now); err != nil {
			return err
		}
	}
	_, err := h.Engine.Admit(ctx, "light", booking.NewDate(now), now)
	return err
}
