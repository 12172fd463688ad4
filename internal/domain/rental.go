package domain

import "time"

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "PENDING"
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusRejected  RentalStatus = "REJECTED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
	RentalStatusCompleted RentalStatus = "COMPLETED"
)

// HoldingStatuses keep a car unavailable and take part in overlap checks.
var HoldingStatuses = []RentalStatus{RentalStatusPending, RentalStatusActive}

func ParseRentalStatus(s string) (RentalStatus, error) {
	st := RentalStatus(s)
	switch st {
	case RentalStatusPending, RentalStatusActive, RentalStatusRejected, RentalStatusCancelled, RentalStatusCompleted:
		return st, nil
	}
	return "", Validationf("unknown rental status %q", s)
}

func (s RentalStatus) IsTerminal() bool {
	return s == RentalStatusRejected || s == RentalStatusCancelled || s == RentalStatusCompleted
}

func (s RentalStatus) HoldsAvailability() bool {
	return s == RentalStatusPending || s == RentalStatusActive
}

type Rental struct {
	ID         int32        `json:"id"`
	CarID      int32        `json:"car_id"`
	CustomerID int32        `json:"customer_id"`
	StartDate  time.Time    `json:"start_date"`
	EndDate    time.Time    `json:"end_date"`
	Status     RentalStatus `json:"status"`

	// Price snapshot captured from the car at booking time.
	PricePerDayCents Cents     `json:"price_per_day_cents"`
	DayCount         int32     `json:"day_count"`
	TotalAmountCents Cents     `json:"total_amount_cents"`
	CreatedOn        time.Time `json:"created_on"`
	UpdatedOn        time.Time `json:"updated_on"`
}

func (r *Rental) Period() DateRange {
	return DateRange{Start: r.StartDate, End: r.EndDate}
}

// DeriveAvailability reports whether a car with reservations in the given
// statuses may be shown as available.
func DeriveAvailability(statuses []RentalStatus) bool {
	for _, s := range statuses {
		if s.HoldsAvailability() {
			return false
		}
	}
	return true
}
