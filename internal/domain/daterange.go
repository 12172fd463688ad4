package domain

import "time"

const DateLayout = "2006-01-02"

// DateRange is an inclusive span of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ToDate drops the clock part, keeping the calendar date in t's location,
// and re-anchors it at UTC midnight.
func ToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: ToDate(start), End: ToDate(end)}
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() || r.End.IsZero()
}

// Valid reports start <= end with both dates set.
func (r DateRange) Valid() bool {
	return !r.IsZero() && !r.End.Before(r.Start)
}

func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}
