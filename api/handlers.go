/*
handlers.go - HTTP API handlers for the desk booking system

PURPOSE:
  Exposes the allocation engine via REST. Handles HTTP request/response,
  JSON serialization, and delegates every booking decision to the engine.

ENDPOINTS:
  Users:
    GET    /api/users                    List users
    POST   /api/users                    Create user
    GET    /api/users/{id}               Get user
    PUT    /api/users/{id}               Update user
    DELETE /api/users/{id}               Delete user

  Bookings:
    GET    /api/bookings                 All reservations, date ascending
    POST   /api/bookings                 Admit a booking
    GET    /api/bookings/utilization     Occupancy report over a range
    GET    /api/bookings/user/{userId}   A user's reservations
    GET    /api/bookings/date/{date}     A date's reservations, desk ascending
    GET    /api/bookings/{id}            One reservation
    DELETE /api/bookings/{id}            Cancel by id
    DELETE /api/bookings/user/{userId}/date/{date}  Cancel by (user, date)

ERROR HANDLING:
  Rejections from the engine are typed; mapping to status codes lives here:
  - 400: malformed input
  - 404: user_not_found, not_found
  - 409: already_booked, weekly_quota_exceeded, desk_capacity_exceeded
  - 500: everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/treaty/desk-engine/booking"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *booking.Engine
	Ledger booking.Ledger
	Users  booking.UserStore

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a handler over the given stores. The ledger and user
// store may be the same object (the SQLite store implements both).
func NewHandler(ledger booking.Ledger, users booking.UserStore, limits booking.Limits) *Handler {
	return &Handler{
		Engine: booking.NewEngine(ledger, booking.NewDirectory(users), limits),
		Ledger: ledger,
		Users:  users,
	}
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// ListUsers returns all users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetUser returns a single user.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := booking.UserID(chi.URLParam(r, "id"))

	u, err := h.Users.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get user", err)
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "User not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(*u))
}

// CreateUser creates a directory record.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	u := booking.User{
		ID:        booking.UserID(req.ID),
		Name:      req.Name,
		Email:     req.Email,
		Avatar:    req.Avatar,
		CreatedAt: time.Now(),
	}
	if err := h.Users.SaveUser(r.Context(), u); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(u))
}

// UpdateUser updates profile fields. Reservations keep the denormalized name
// captured at admission time.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := booking.UserID(chi.URLParam(r, "id"))

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	existing, err := h.Users.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get user", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "User not found", nil)
		return
	}

	existing.Name = req.Name
	existing.Email = req.Email
	existing.Avatar = req.Avatar
	if err := h.Users.SaveUser(r.Context(), *existing); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update user", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(*existing))
}

// DeleteUser removes a directory record.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := booking.UserID(chi.URLParam(r, "id"))

	if err := h.Users.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// BOOKING HANDLERS
// =============================================================================

// ListBookings returns every reservation, date ascending.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.Engine.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bookings", err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTOs(reservations))
}

// ListBookingsByUser returns one user's reservations, date ascending.
func (h *Handler) ListBookingsByUser(w http.ResponseWriter, r *http.Request) {
	userID := booking.UserID(chi.URLParam(r, "userId"))

	reservations, err := h.Engine.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bookings", err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTOs(reservations))
}

// ListBookingsByDate returns one date's reservations, desk number ascending.
func (h *Handler) ListBookingsByDate(w http.ResponseWriter, r *http.Request) {
	date := booking.Date(chi.URLParam(r, "date"))

	reservations, err := h.Engine.ListByDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bookings", err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTOs(reservations))
}

// GetBooking returns a single reservation.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := booking.ReservationID(chi.URLParam(r, "id"))

	res, err := h.Engine.Get(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTO(*res))
}

// CreateBooking admits a booking for (user, date).
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.UserID == "" || req.Date == "" {
		writeError(w, http.StatusBadRequest, "user_id and date are required", nil)
		return
	}

	res, err := h.Engine.Admit(r.Context(), booking.UserID(req.UserID), booking.Date(req.Date), time.Now())
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReservationDTO(*res))
}

// DeleteBooking cancels a reservation by id.
func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := booking.ReservationID(chi.URLParam(r, "id"))

	if err := h.Engine.Cancel(r.Context(), id); err != nil {
		h.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteBookingByUserAndDate cancels the reservation matching (user, date).
func (h *Handler) DeleteBookingByUserAndDate(w http.ResponseWriter, r *http.Request) {
	userID := booking.UserID(chi.URLParam(r, "userId"))
	date := booking.Date(chi.URLParam(r, "date"))

	if err := h.Engine.CancelByUserAndDate(r.Context(), userID, date); err != nil {
		h.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetUtilization returns the occupancy report for ?from=&to= (both
// inclusive, YYYY-MM-DD). Defaults to the current quota window when omitted.
func (h *Handler) GetUtilization(w http.ResponseWriter, r *http.Request) {
	limits := h.Engine.Limits()

	from := booking.Date(r.URL.Query().Get("from"))
	to := booking.Date(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		start, end := booking.Window(time.Now(), limits.WeekWindowDays)
		from = booking.NewDate(start)
		to = booking.NewDate(end.AddDate(0, 0, -1))
	}

	report, err := booking.RangeUtilization(r.Context(), h.Ledger, from, to, limits.MaxDesksPerDay)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid utilization range", err)
		return
	}
	writeJSON(w, http.StatusOK, toUtilizationDTO(report))
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrUserNotFound):
		writeErrorCode(w, http.StatusNotFound, "user_not_found", err)
	case errors.Is(err, booking.ErrNotFound):
		writeErrorCode(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, booking.ErrAlreadyBooked):
		writeErrorCode(w, http.StatusConflict, "already_booked", err)
	case errors.Is(err, booking.ErrQuotaExceeded):
		writeErrorCode(w, http.StatusConflict, "weekly_quota_exceeded", err)
	case errors.Is(err, booking.ErrCapacityExceeded):
		writeErrorCode(w, http.StatusConflict, "desk_capacity_exceeded", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeErrorCode(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, ErrorResponse{
		Error: err.Error(),
		Code:  code,
	})
}
