/*
dto.go - Request/response data structures for the HTTP API

PURPOSE:
  JSON shapes exchanged with clients, kept separate from domain types so the
  wire format can evolve without touching the engine.

SEE ALSO:
  - handlers.go: Uses these DTOs
*/
package api

import (
	"time"

	"github.com/treaty/desk-engine/booking"
)

// =============================================================================
// REQUESTS
// =============================================================================

// CreateBookingRequest asks the engine to admit a booking.
type CreateBookingRequest struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"`
}

// CreateUserRequest creates a directory record. ID is optional; a uuid is
// generated when omitted.
type CreateUserRequest struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// UpdateUserRequest updates profile fields. Existing reservations keep the
// name they were admitted with.
type UpdateUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// LoadScenarioRequest selects a demo scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// RESPONSES
// =============================================================================

// ReservationDTO is the wire form of a reservation.
type ReservationDTO struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	Date       string `json:"date"`
	DeskNumber int    `json:"desk_number"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// UserDTO is the wire form of a directory record.
type UserDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// DayUtilizationDTO is one day of the utilization report.
type DayUtilizationDTO struct {
	Date     string `json:"date"`
	Occupied int    `json:"occupied"`
	Capacity int    `json:"capacity"`
	Rate     string `json:"rate"`
}

// UtilizationDTO is the occupancy report for a date range.
type UtilizationDTO struct {
	From        string              `json:"from"`
	To          string              `json:"to"`
	Days        []DayUtilizationDTO `json:"days"`
	AverageRate string              `json:"average_rate"`
}

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toReservationDTO(r booking.Reservation) ReservationDTO {
	dto := ReservationDTO{
		ID:         string(r.ID),
		UserID:     string(r.UserID),
		UserName:   r.UserName,
		Date:       string(r.Date),
		DeskNumber: r.DeskNumber,
	}
	if !r.CreatedAt.IsZero() {
		dto.CreatedAt = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func toReservationDTOs(reservations []booking.Reservation) []ReservationDTO {
	dtos := make([]ReservationDTO, len(reservations))
	for i, r := range reservations {
		dtos[i] = toReservationDTO(r)
	}
	return dtos
}

func toUserDTO(u booking.User) UserDTO {
	dto := UserDTO{
		ID:     string(u.ID),
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
	}
	if !u.CreatedAt.IsZero() {
		dto.CreatedAt = u.CreatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func toUtilizationDTO(report *booking.UtilizationReport) UtilizationDTO {
	days := make([]DayUtilizationDTO, len(report.Days))
	for i, d := range report.Days {
		days[i] = DayUtilizationDTO{
			Date:     string(d.Date),
			Occupied: d.Occupied,
			Capacity: d.Capacity,
			Rate:     d.Rate.String(),
		}
	}
	return UtilizationDTO{
		From:        string(report.From),
		To:          string(report.To),
		Days:        days,
		AverageRate: report.AverageRate.String(),
	}
}
