package utils

import (
	"fmt"
	"time"

	"carrent-backend/internal/domain"
)

// RentalCostBreakdown provides the figures stored on a reservation
type RentalCostBreakdown struct {
	Days      int32
	DailyRate domain.Cents
	TotalCost domain.Cents
}

// ParseDate converts a yyyy-mm-dd formatted string into a UTC calendar date
func ParseDate(dateStr string) (time.Time, error) {
	if len(dateStr) != len(domain.DateLayout) {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}
	t, err := time.ParseInLocation(domain.DateLayout, dateStr, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %v", dateStr, err)
	}
	return t, nil
}

// DaysInclusive counts calendar days from start to end, both ends included.
// Only the calendar date of each argument is used.
func DaysInclusive(start, end time.Time) (int32, error) {
	s, e := domain.ToDate(start), domain.ToDate(end)
	if e.Before(s) {
		return 0, fmt.Errorf("end date must be >= start date")
	}
	// Both values are UTC midnights, so the difference is a whole number of days.
	return int32(e.Sub(s)/(24*time.Hour)) + 1, nil
}

// CalculateRentalCost prices a rental at a flat daily rate
func CalculateRentalCost(startDate, endDate time.Time, dailyRate domain.Cents) (RentalCostBreakdown, error) {
	if dailyRate <= 0 {
		return RentalCostBreakdown{}, fmt.Errorf("daily rate must be positive")
	}
	days, err := DaysInclusive(startDate, endDate)
	if err != nil {
		return RentalCostBreakdown{}, err
	}
	total, err := dailyRate.Mul(int64(days))
	if err != nil {
		return RentalCostBreakdown{}, err
	}
	return RentalCostBreakdown{
		Days:      days,
		DailyRate: dailyRate,
		TotalCost: total,
	}, nil
}
