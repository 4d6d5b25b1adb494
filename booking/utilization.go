package booking

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// maxReportDays bounds the utilization range so a bad request cannot walk an
// unbounded number of days.
const maxReportDays = 366

// =============================================================================
// UTILIZATION REPORT - Occupancy rates over a date range
// =============================================================================

// DayUtilization is one day's occupancy against capacity.
type DayUtilization struct {
	Date     Date
	Occupied int
	Capacity int
	Rate     decimal.Decimal
}

// UtilizationReport summarizes occupancy over an inclusive date range.
type UtilizationReport struct {
	From        Date
	To          Date
	Days        []DayUtilization
	AverageRate decimal.Decimal
}

// RangeUtilization computes per-day occupancy rates for [from, to], both
// ends inclusive. Rates use exact decimal arithmetic so 3 of 15 desks is
// precisely 0.2, not a float approximation. Read-only; runs concurrently
// with admissions and observes whichever snapshot each count lands on.
func RangeUtilization(ctx context.Context, ledger Ledger, from, to Date, capacity int) (*UtilizationReport, error) {
	start, ok := from.Day()
	if !ok {
		return nil, fmt.Errorf("invalid from date %q", from)
	}
	end, ok := to.Day()
	if !ok {
		return nil, fmt.Errorf("invalid to date %q", to)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s before start %s", to, from)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d", capacity)
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if days > maxReportDays {
		return nil, fmt.Errorf("range spans %d days (max %d)", days, maxReportDays)
	}

	report := &UtilizationReport{
		From: from,
		To:   to,
		Days: make([]DayUtilization, 0, days),
	}

	seats := decimal.NewFromInt(int64(capacity))
	total := decimal.Zero
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := NewDate(day)
		occupied, err := ledger.Count(ctx, date)
		if err != nil {
			return nil, err
		}
		rate := decimal.NewFromInt(int64(occupied)).Div(seats)
		total = total.Add(rate)
		report.Days = append(report.Days, DayUtilization{
			Date:     date,
			Occupied: occupied,
			Capacity: capacity,
			Rate:     rate,
		})
	}

	report.AverageRate = total.Div(decimal.NewFromInt(int64(len(report.Days))))
	return report, nil
}
