package contract

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/types"
)

// existingTenantLeadMonths is how far before the original lease expiry an
// existing tenant's payments start flowing through this system.
const existingTenantLeadMonths = 6

// ArrearsSnapshot is a derived view of how far behind a contract is as of a
// given day. It is never persisted.
type ArrearsSnapshot struct {
	MonthsOverdue  int             `json:"months_overdue"`
	TotalArrears   decimal.Decimal `json:"total_arrears"`
	NextPaymentDue time.Time       `json:"next_payment_due"`
}

// HasArrears reports whether any months are owed
func (a ArrearsSnapshot) HasArrears() bool {
	return a.MonthsOverdue > 0
}

// CalculateTransitionStart computes the date from which payments begin
// flowing through this system. New tenants start today; existing tenants
// start six calendar months before their original lease expiry, with
// day-of-month overflow clamped (Feb 29 minus six months lands on Aug 29 of
// the prior year). The result is normalized to midnight.
func CalculateTransitionStart(isExistingTenant bool, originalExpiry *time.Time, now time.Time) (time.Time, error) {
	if !isExistingTenant {
		return types.BeginningOfDay(now), nil
	}

	if originalExpiry == nil {
		return time.Time{}, ierr.NewError("missing original expiry date").
			WithHint("Original expiry date is required for existing tenants").
			Mark(ierr.ErrValidation)
	}

	start := types.AddClampedDate(*originalExpiry, 0, -existingTenantLeadMonths, 0)
	return types.BeginningOfDay(start), nil
}

// CalculateArrears counts the whole months owed strictly between the
// transition start and today. A transition start on or after today yields
// zero arrears with the transition date itself as the next due date;
// otherwise the next due date is the first day of the month after today.
// Pure and deterministic for a fixed now.
func CalculateArrears(transitionStart time.Time, monthlyAmount decimal.Decimal, now time.Time) ArrearsSnapshot {
	today := types.BeginningOfDay(now)
	start := types.BeginningOfDay(transitionStart)

	if !start.Before(today) {
		return ArrearsSnapshot{
			MonthsOverdue:  0,
			TotalArrears:   decimal.Zero,
			NextPaymentDue: start,
		}
	}

	months := 0
	cursor := start
	for {
		next := types.AddClampedDate(cursor, 0, 1, 0)
		if next.After(today) {
			break
		}
		months++
		cursor = next
	}

	return ArrearsSnapshot{
		MonthsOverdue:  months,
		TotalArrears:   monthlyAmount.Mul(decimal.NewFromInt(int64(months))),
		NextPaymentDue: types.FirstOfNextMonth(today),
	}
}
