package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDateRange_Overlaps(t *testing.T) {
	base := DateRange{Start: day("2025-06-01"), End: day("2025-06-03")}

	tests := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"identical", base, true},
		{"shifted by one", DateRange{day("2025-06-02"), day("2025-06-04")}, true},
		{"touching end", DateRange{day("2025-06-03"), day("2025-06-05")}, true},
		{"touching start", DateRange{day("2025-05-28"), day("2025-06-01")}, true},
		{"contained", DateRange{day("2025-06-02"), day("2025-06-02")}, true},
		{"enclosing", DateRange{day("2025-05-01"), day("2025-07-01")}, true},
		{"after", DateRange{day("2025-06-04"), day("2025-06-06")}, false},
		{"before", DateRange{day("2025-05-01"), day("2025-05-31")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestDateRange_Valid(t *testing.T) {
	assert.True(t, DateRange{day("2025-06-01"), day("2025-06-01")}.Valid())
	assert.False(t, DateRange{day("2025-06-02"), day("2025-06-01")}.Valid())
	assert.False(t, DateRange{End: day("2025-06-01")}.Valid())
}

func TestToDate(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	got := ToDate(time.Date(2025, 6, 1, 1, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got)
}
