// Package store provides Ledger implementations.
package store

import (
	"context"
	"sync"

	"github.com/treaty/desk-engine/booking"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements booking.Ledger and booking.UserStore in process memory.
// Index slices preserve insertion order, so per-date results come back in
// admission order without the caller relying on it.
type Memory struct {
	mu           sync.RWMutex
	reservations map[booking.ReservationID]booking.Reservation
	byDate       map[booking.Date][]booking.ReservationID
	byUser       map[booking.UserID][]booking.ReservationID
	users        map[booking.UserID]booking.User
	userOrder    []booking.UserID
}

func NewMemory() *Memory {
	return &Memory{
		reservations: make(map[booking.ReservationID]booking.Reservation),
		byDate:       make(map[booking.Date][]booking.ReservationID),
		byUser:       make(map[booking.UserID][]booking.ReservationID),
		users:        make(map[booking.UserID]booking.User),
	}
}

// =============================================================================
// LEDGER
// =============================================================================

func (m *Memory) Insert(_ context.Context, r booking.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.reservations[r.ID]; exists {
		return booking.ErrDuplicateID
	}
	m.reservations[r.ID] = r
	m.byDate[r.Date] = append(m.byDate[r.Date], r.ID)
	m.byUser[r.UserID] = append(m.byUser[r.UserID], r.ID)
	return nil
}

func (m *Memory) Remove(_ context.Context, id booking.ReservationID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(id)
}

func (m *Memory) RemoveByUserAndDate(_ context.Context, userID booking.UserID, date booking.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.byUser[userID] {
		if m.reservations[id].Date == date {
			return m.removeLocked(id)
		}
	}
	return booking.ErrNotFound
}

func (m *Memory) removeLocked(id booking.ReservationID) error {
	r, exists := m.reservations[id]
	if !exists {
		return booking.ErrNotFound
	}
	delete(m.reservations, id)
	m.byDate[r.Date] = dropID(m.byDate[r.Date], id)
	m.byUser[r.UserID] = dropID(m.byUser[r.UserID], id)
	return nil
}

func (m *Memory) FindByID(_ context.Context, id booking.ReservationID) (*booking.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, exists := m.reservations[id]
	if !exists {
		return nil, nil
	}
	return &r, nil
}

func (m *Memory) FindByUser(_ context.Context, userID booking.UserID) ([]booking.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collectLocked(m.byUser[userID]), nil
}

func (m *Memory) FindByDate(_ context.Context, date booking.Date) ([]booking.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collectLocked(m.byDate[date]), nil
}

func (m *Memory) FindAll(_ context.Context) ([]booking.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]booking.Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		result = append(result, r)
	}
	return result, nil
}

func (m *Memory) Count(_ context.Context, date booking.Date) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byDate[date]), nil
}

func (m *Memory) collectLocked(ids []booking.ReservationID) []booking.Reservation {
	result := make([]booking.Reservation, 0, len(ids))
	for _, id := range ids {
		result = append(result, m.reservations[id])
	}
	return result
}

func dropID(ids []booking.ReservationID, id booking.ReservationID) []booking.ReservationID {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// =============================================================================
// USER STORE
// =============================================================================

func (m *Memory) SaveUser(_ context.Context, u booking.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[u.ID]; !exists {
		m.userOrder = append(m.userOrder, u.ID)
	}
	m.users[u.ID] = u
	return nil
}

func (m *Memory) GetUser(_ context.Context, id booking.UserID) (*booking.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, exists := m.users[id]
	if !exists {
		return nil, nil
	}
	return &u, nil
}

func (m *Memory) ListUsers(_ context.Context) ([]booking.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]booking.User, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		result = append(result, m.users[id])
	}
	return result, nil
}

func (m *Memory) DeleteUser(_ context.Context, id booking.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[id]; !exists {
		return booking.ErrNotFound
	}
	delete(m.users, id)
	for i, candidate := range m.userOrder {
		if candidate == id {
			m.userOrder = append(m.userOrder[:i], m.userOrder[i+1:]...)
			break
		}
	}
	return nil
}

// =============================================================================
// RESETTER
// =============================================================================

// Reset drops all reservations and users.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reservations = make(map[booking.ReservationID]booking.Reservation)
	m.byDate = make(map[booking.Date][]booking.ReservationID)
	m.byUser = make(map[booking.UserID][]booking.ReservationID)
	m.users = make(map[booking.UserID]booking.User)
	m.userOrder = nil
	return nil
}
