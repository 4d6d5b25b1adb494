package booking_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treaty/desk-engine/booking"
	"github.com/treaty/desk-engine/booking/store"
)

func TestRangeUtilization(t *testing.T) {
	// GIVEN: 3 desks booked on Jan 6 and 6 on Jan 7, capacity 15
	// THEN: Rates are exactly 0.2 and 0.4, average 0.2 over the 3-day range
	//       including an empty day

	mem := store.NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seedReservation(t, mem, fmt.Sprintf("a%d", i), booking.UserID(fmt.Sprintf("u%d", i)), "2025-01-06")
	}
	for i := 0; i < 6; i++ {
		seedReservation(t, mem, fmt.Sprintf("b%d", i), booking.UserID(fmt.Sprintf("u%d", i)), "2025-01-07")
	}

	report, err := booking.RangeUtilization(ctx, mem, "2025-01-06", "2025-01-08", 15)
	require.NoError(t, err)
	require.Len(t, report.Days, 3)

	assert.Equal(t, 3, report.Days[0].Occupied)
	assert.True(t, report.Days[0].Rate.Equal(decimal.RequireFromString("0.2")), "got %s", report.Days[0].Rate)
	assert.Equal(t, 6, report.Days[1].Occupied)
	assert.True(t, report.Days[1].Rate.Equal(decimal.RequireFromString("0.4")), "got %s", report.Days[1].Rate)
	assert.Equal(t, 0, report.Days[2].Occupied)
	assert.True(t, report.Days[2].Rate.IsZero())

	assert.True(t, report.AverageRate.Equal(decimal.RequireFromString("0.2")), "got %s", report.AverageRate)
}

func TestRangeUtilization_SingleDay(t *testing.T) {
	mem := store.NewMemory()

	report, err := booking.RangeUtilization(context.Background(), mem, "2025-01-06", "2025-01-06", 15)
	require.NoError(t, err)
	assert.Len(t, report.Days, 1)
	assert.True(t, report.AverageRate.IsZero())
}

func TestRangeUtilization_BadInput(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	_, err := booking.RangeUtilization(ctx, mem, "garbage", "2025-01-06", 15)
	assert.Error(t, err)

	_, err = booking.RangeUtilization(ctx, mem, "2025-01-08", "2025-01-06", 15)
	assert.Error(t, err)

	_, err = booking.RangeUtilization(ctx, mem, "2025-01-06", "2027-01-06", 15)
	assert.Error(t, err, "ranges beyond a year are refused")

	_, err = booking.RangeUtilization(ctx, mem, "2025-01-06", "2025-01-07", 0)
	assert.Error(t, err)
}
