package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddClampedDate(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		years  int
		months int
		days   int
		want   time.Time
	}{
		{
			name:  "plain month addition",
			start: mustDate(2024, time.March, 10), months: 1,
			want: mustDate(2024, time.April, 10),
		},
		{
			name:  "jan 31 plus one month clamps to feb 29",
			start: mustDate(2024, time.January, 31), months: 1,
			want: mustDate(2024, time.February, 29),
		},
		{
			name:  "jan 31 plus one month clamps to feb 28 off leap years",
			start: mustDate(2023, time.January, 31), months: 1,
			want: mustDate(2023, time.February, 28),
		},
		{
			name:  "subtraction rolls over the year boundary",
			start: mustDate(2024, time.February, 29), months: -6,
			want: mustDate(2023, time.August, 29),
		},
		{
			name:  "month overflow carries into the next year",
			start: mustDate(2024, time.November, 15), months: 3,
			want: mustDate(2025, time.February, 15),
		},
		{
			name:  "day offset",
			start: mustDate(2024, time.June, 1), days: -30,
			want: mustDate(2024, time.May, 2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddClampedDate(tt.start, tt.years, tt.months, tt.days)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBeginningOfDay(t *testing.T) {
	in := time.Date(2024, time.May, 7, 18, 45, 12, 999, time.UTC)
	assert.Equal(t, mustDate(2024, time.May, 7), BeginningOfDay(in))
}

func TestFirstOfNextMonth(t *testing.T) {
	assert.Equal(t, mustDate(2024, time.June, 1), FirstOfNextMonth(mustDate(2024, time.May, 7)))
	assert.Equal(t, mustDate(2025, time.January, 1), FirstOfNextMonth(mustDate(2024, time.December, 31)))
}
