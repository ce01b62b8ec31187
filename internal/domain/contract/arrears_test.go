package contract

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateTransitionStart_NewTenant(t *testing.T) {
	now := time.Date(2025, time.March, 14, 15, 9, 26, 0, time.UTC)

	// The new-tenant path ignores any expiry input entirely
	got, err := CalculateTransitionStart(false, nil, now)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.March, 14), got)

	withExpiry := lo.ToPtr(date(2030, time.January, 1))
	got, err = CalculateTransitionStart(false, withExpiry, now)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.March, 14), got)
}

func TestCalculateTransitionStart_ExistingTenant(t *testing.T) {
	now := date(2024, time.January, 10)

	tests := []struct {
		name           string
		originalExpiry time.Time
		want           time.Time
	}{
		{
			name:           "six months before expiry",
			originalExpiry: date(2024, time.December, 15),
			want:           date(2024, time.June, 15),
		},
		{
			name:           "leap day rolls back across the year boundary",
			originalExpiry: date(2024, time.February, 29),
			want:           date(2023, time.August, 29),
		},
		{
			name:           "day-of-month overflow is clamped",
			originalExpiry: date(2024, time.August, 31),
			want:           date(2024, time.February, 29),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateTransitionStart(true, &tt.originalExpiry, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateTransitionStart_ExistingTenantRequiresExpiry(t *testing.T) {
	_, err := CalculateTransitionStart(true, nil, date(2024, time.January, 1))
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestCalculateArrears_ZeroWhenStartNotPast(t *testing.T) {
	now := date(2025, time.June, 1)
	future := date(2025, time.September, 1)

	got := CalculateArrears(future, decimal.NewFromInt(1000), now)
	assert.Equal(t, 0, got.MonthsOverdue)
	assert.True(t, got.TotalArrears.IsZero())
	assert.Equal(t, future, got.NextPaymentDue)
	assert.False(t, got.HasArrears())

	// Starting exactly today is not overdue either
	got = CalculateArrears(now, decimal.NewFromInt(1000), now)
	assert.Equal(t, 0, got.MonthsOverdue)
	assert.Equal(t, now, got.NextPaymentDue)
}

func TestCalculateArrears_Accumulation(t *testing.T) {
	now := date(2025, time.June, 15)
	start := types.AddClampedDate(now, 0, -3, 0)

	got := CalculateArrears(start, decimal.NewFromInt(1000), now)
	assert.Equal(t, 3, got.MonthsOverdue)
	assert.True(t, got.TotalArrears.Equal(decimal.NewFromInt(3000)), "got %s", got.TotalArrears)
	assert.Equal(t, date(2025, time.July, 1), got.NextPaymentDue)
	assert.True(t, got.HasArrears())
}

func TestCalculateArrears_PartialMonthDoesNotCount(t *testing.T) {
	now := date(2025, time.June, 15)

	// 2.5 months back still owes only two whole months
	start := date(2025, time.March, 30)
	got := CalculateArrears(start, decimal.NewFromInt(1200), now)
	assert.Equal(t, 2, got.MonthsOverdue)
	assert.True(t, got.TotalArrears.Equal(decimal.NewFromInt(2400)))
}

func TestCalculateArrears_Deterministic(t *testing.T) {
	now := date(2025, time.June, 15)
	start := date(2025, time.January, 15)

	first := CalculateArrears(start, decimal.NewFromInt(500), now)
	second := CalculateArrears(start, decimal.NewFromInt(500), now)
	assert.Equal(t, first, second)
}
