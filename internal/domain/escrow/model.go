package escrow

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/types"
)

// EscrowBalance accumulates YEARLY-payout rent for a contract until it is
// released to the landlord. At most one unreleased balance exists per
// contract; once released the record is immutable history.
type EscrowBalance struct {
	// Unique identifier for this escrow balance
	ID string `db:"id" json:"id"`
	// The contract whose payments accumulate here
	ContractID string `db:"contract_id" json:"contract_id"`
	// The landlord the balance will be released to
	LandlordID string `db:"landlord_id" json:"landlord_id"`
	// Total amount escrowed; monotonically increasing until release
	TotalEscrowed decimal.Decimal `db:"total_escrowed" json:"total_escrowed"`
	// Number of monthly deposits accumulated; one deposit = one month
	MonthsAccumulated int `db:"months_accumulated" json:"months_accumulated"`
	// Date the balance becomes eligible for the scheduled release sweep;
	// set to the contract expiry date at creation
	ExpectedReleaseDate time.Time `db:"expected_release_date" json:"expected_release_date"`
	// Release state; a released balance is never mutated again
	IsReleased bool       `db:"is_released" json:"is_released"`
	ReleasedAt *time.Time `db:"released_at" json:"released_at,omitempty"`
	// Snapshot of TotalEscrowed taken at release time
	ReleasedAmount *decimal.Decimal `db:"released_amount" json:"released_amount,omitempty"`

	types.BaseModel
}

// Validate validates the escrow balance fields
func (e *EscrowBalance) Validate() error {
	if e.ContractID == "" {
		return ierr.NewError("invalid contract id").
			WithHint("Contract id is required").
			Mark(ierr.ErrValidation)
	}
	if e.LandlordID == "" {
		return ierr.NewError("invalid landlord id").
			WithHint("Landlord id is required").
			Mark(ierr.ErrValidation)
	}
	if e.TotalEscrowed.IsNegative() {
		return ierr.NewError("invalid escrowed amount").
			WithHint("Escrowed amount cannot be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TableName returns the table name for escrow balances
func (e *EscrowBalance) TableName() string {
	return "escrow_balances"
}

// ReleaseResult is returned for each successfully released balance
type ReleaseResult struct {
	EscrowID      string          `json:"escrow_id"`
	ContractID    string          `json:"contract_id"`
	LandlordID    string          `json:"landlord_id"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
	ReleasedAt    time.Time       `json:"released_at"`
}
