package escrow

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository defines the interface for escrow balance persistence
type Repository interface {
	Get(ctx context.Context, id string) (*EscrowBalance, error)

	// Accumulate atomically adds amount to the contract's unreleased balance,
	// incrementing the month counter, creating the balance when none exists.
	// The insert-or-update must be a single atomic statement so concurrent
	// deposits on the same contract cannot lose an update.
	Accumulate(ctx context.Context, deposit *EscrowBalance) (*EscrowBalance, error)

	// GetUnreleasedByContract returns the contract's single unreleased
	// balance, or a not-found error.
	GetUnreleasedByContract(ctx context.Context, contractID string) (*EscrowBalance, error)

	// ListReleasable returns unreleased balances whose expected release date
	// is on or before asOf.
	ListReleasable(ctx context.Context, asOf time.Time) ([]*EscrowBalance, error)

	// ListUnreleasedByLandlord returns all unreleased balances for a landlord.
	ListUnreleasedByLandlord(ctx context.Context, landlordID string) ([]*EscrowBalance, error)

	// MarkReleased flips the release guard on an unreleased balance,
	// stamping the release time and snapshotting the released amount. It
	// fails with a not-found error when the balance does not exist or was
	// already released, which makes release idempotent under races.
	MarkReleased(ctx context.Context, id string, releasedAt time.Time, amount decimal.Decimal) error

	// SumUnreleasedByLandlord totals unreleased balances for a landlord;
	// zero (not an error) when none exist.
	SumUnreleasedByLandlord(ctx context.Context, landlordID string) (decimal.Decimal, error)
}
