package contract

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/types"
)

// RentContract represents a rent agreement between a tenant and a landlord
// for a specific unit. Contracts are never physically deleted; they move to
// a terminal status instead.
type RentContract struct {
	// Unique identifier for this contract
	ID string `db:"id" json:"id"`
	// The tenant renting the unit
	TenantID string `db:"tenant_id" json:"tenant_id"`
	// The landlord receiving the rent
	LandlordID string `db:"landlord_id" json:"landlord_id"`
	// The property and unit the contract covers
	PropertyID string `db:"property_id" json:"property_id"`
	UnitID     string `db:"unit_id" json:"unit_id"`
	// Monthly rent amount, currency-agnostic
	MonthlyAmount decimal.Decimal `db:"monthly_amount" json:"monthly_amount"`
	// Date the contract expires
	ExpiryDate time.Time `db:"expiry_date" json:"expiry_date"`
	// Landlord payout preference: MONTHLY (immediate credit) or YEARLY (escrow)
	PayoutType types.PayoutType `db:"payout_type" json:"payout_type"`
	// Next date a rent payment falls due
	NextPaymentDue time.Time `db:"next_payment_due" json:"next_payment_due"`
	// Date from which payments begin flowing through this system
	TransitionStart time.Time `db:"transition_start" json:"transition_start"`
	// Business lifecycle state; EXPIRED and TERMINATED are terminal
	ContractStatus types.ContractStatus `db:"contract_status" json:"contract_status"`
	// Set when the tenant is transitioning from a pre-existing off-system lease
	IsExistingTenant bool `db:"is_existing_tenant" json:"is_existing_tenant"`
	// Expiry of the off-system lease; required when IsExistingTenant is set
	OriginalExpiryDate *time.Time `db:"original_expiry_date" json:"original_expiry_date,omitempty"`

	types.BaseModel
}

// Validate validates the contract fields
func (c *RentContract) Validate() error {
	if c.TenantID == "" {
		return ierr.NewError("invalid tenant id").
			WithHint("Tenant id is required").
			Mark(ierr.ErrValidation)
	}
	if c.LandlordID == "" {
		return ierr.NewError("invalid landlord id").
			WithHint("Landlord id is required").
			Mark(ierr.ErrValidation)
	}
	if c.MonthlyAmount.LessThanOrEqual(decimal.Zero) {
		return ierr.NewError("invalid monthly amount").
			WithHint("Monthly amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	if err := c.PayoutType.Validate(); err != nil {
		return err
	}
	if err := c.ContractStatus.Validate(); err != nil {
		return err
	}
	if c.IsExistingTenant && c.OriginalExpiryDate == nil {
		return ierr.NewError("missing original expiry date").
			WithHint("Original expiry date is required for existing tenants").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsActive reports whether the contract can still accept payments
func (c *RentContract) IsActive() bool {
	return c.ContractStatus == types.ContractStatusActive
}

// TableName returns the table name for rent contracts
func (c *RentContract) TableName() string {
	return "rent_contracts"
}
