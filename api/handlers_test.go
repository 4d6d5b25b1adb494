/*
handlers_test.go - Unit tests for API handlers

Tests request/response mapping over a real router: booking admission and
rejection codes, cancellation paths, list ordering, and the utilization
report.
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treaty/desk-engine/api"
	"github.com/treaty/desk-engine/booking"
	"github.com/treaty/desk-engine/booking/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	handler := api.NewHandler(mem, mem, booking.DefaultLimits())
	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv, mem
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createUser(t *testing.T, srv *httptest.Server, id, name string) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/users", map[string]string{"id": id, "name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// =============================================================================
// USER ENDPOINT TESTS
// =============================================================================

func TestUserCRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	// Create without id: one is generated
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/users", map[string]string{"name": "Alice Chen", "email": "alice@example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[map[string]any](t, resp)
	id := created["id"].(string)
	require.NotEmpty(t, id)

	// Read back
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/users/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[map[string]any](t, resp)
	assert.Equal(t, "Alice Chen", got["name"])

	// Update
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/users/"+id, map[string]string{"name": "Alice Nakamura"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Delete
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/users/"+id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/users/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateUser_MissingName(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/users", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// BOOKING ENDPOINT TESTS
// =============================================================================

func TestCreateBooking_Success(t *testing.T) {
	srv, _ := newTestServer(t)
	createUser(t, srv, "alice", "Alice Chen")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", map[string]string{"user_id": "alice", "date": "2025-01-06"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	res := decode[map[string]any](t, resp)
	assert.Equal(t, "alice", res["user_id"])
	assert.Equal(t, "Alice Chen", res["user_name"])
	assert.Equal(t, "2025-01-06", res["date"])
	assert.Equal(t, float64(1), res["desk_number"])
}

func TestCreateBooking_UnknownUser_404(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", map[string]string{"user_id": "ghost", "date": "2025-01-06"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "user_not_found", body["code"])
}

func TestCreateBooking_Duplicate_409(t *testing.T) {
	srv, _ := newTestServer(t)
	createUser(t, srv, "alice", "Alice Chen")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", map[string]string{"user_id": "alice", "date": "2025-01-06"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/bookings", map[string]string{"user_id": "alice", "date": "2025-01-06"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "already_booked", body["code"])
}

func TestCreateBooking_CapacityFull_409(t *testing.T) {
	srv, _ := newTestServer(t)

	for i := 1; i <= 15; i++ {
		id := fmt.Sprintf("user-%02d", i)
		createUser(t, srv, id, fmt.Sprintf("User %d", i))
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", map[string]string{"user_id": id, "date": "2025-01-06"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	createUser(t, srv, "user-16", "User 16")
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", map[string]string{"user_id": "user-16", "date": "2025-01-06"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "desk_capacity_exceeded", body["code"])
}

func TestCreateBooking_MissingFields_400(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", map[string]string{"user_id": "alice"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListBookingsByDate_SortedByDesk(t *testing.T) {
	srv, _ := newTestServer(t)

	for i := 1; i <= 4; i++ {
		id := fmt.Sprintf("user-%d", i)
		createUser(t, srv, id, fmt.Sprintf("User %d", i))
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", map[string]string{"user_id": id, "date": "2025-01-06"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/bookings/date/2025-01-06", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]map[string]any](t, resp)
	require.Len(t, list, 4)
	for i, r := range list {
		assert.Equal(t, float64(i+1), r["desk_number"])
	}
}

func TestDeleteBookingByUserAndDate(t *testing.T) {
	srv, _ := newTestServer(t)
	createUser(t, srv, "alice", "Alice Chen")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", map[string]string{"user_id": "alice", "date": "2025-01-06"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/bookings/user/alice/date/2025-01-06", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/bookings/user/alice/date/2025-01-06", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "not_found", body["code"])
}

func TestDeleteBooking_ById(t *testing.T) {
	srv, _ := newTestServer(t)
	createUser(t, srv, "alice", "Alice Chen")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", map[string]string{"user_id": "alice", "date": "2025-01-06"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[map[string]any](t, resp)
	id := created["id"].(string)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/bookings/"+id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/bookings/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetUtilization(t *testing.T) {
	srv, _ := newTestServer(t)

	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("user-%d", i)
		createUser(t, srv, id, fmt.Sprintf("User %d", i))
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/bookings", map[string]string{"user_id": id, "date": "2025-01-06"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/bookings/utilization?from=2025-01-06&to=2025-01-06", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	report := decode[map[string]any](t, resp)
	days := report["days"].([]any)
	require.Len(t, days, 1)
	day := days[0].(map[string]any)
	assert.Equal(t, float64(3), day["occupied"])
	assert.Equal(t, "0.2", day["rate"])
}

func TestGetUtilization_BadRange_400(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/bookings/utilization?from=garbage&to=2025-01-06", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
