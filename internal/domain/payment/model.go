package payment

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/types"
)

// Payment is the record of a single rent payment on a contract, whether a
// regular monthly payment or an arrears settlement.
type Payment struct {
	// Unique identifier for this payment
	ID string `db:"id" json:"id"`
	// The contract the payment was made against
	ContractID string `db:"contract_id" json:"contract_id"`
	// Denormalized parties for reporting queries
	TenantID   string `db:"tenant_id" json:"tenant_id"`
	LandlordID string `db:"landlord_id" json:"landlord_id"`
	// Amount paid
	Amount decimal.Decimal `db:"amount" json:"amount"`
	// Regular monthly payment or arrears settlement
	PaymentType types.PaymentType `db:"payment_type" json:"payment_type"`
	// How the payout router dispatched the amount
	PayoutRoute types.PayoutRoute `db:"payout_route" json:"payout_route"`
	// Number of months the payment covers; 1 for a regular payment
	MonthsCovered int `db:"months_covered" json:"months_covered"`
	// Optional caller-supplied method and reference
	PaymentMethod *string `db:"payment_method" json:"payment_method,omitempty"`
	Reference     *string `db:"reference" json:"reference,omitempty"`
	// Transaction id from the payout gateway for immediate payouts
	GatewayTransactionID *string `db:"gateway_transaction_id" json:"gateway_transaction_id,omitempty"`
	// When the payment was accepted
	PaidAt time.Time `db:"paid_at" json:"paid_at"`

	types.BaseModel
}

// Validate validates the payment record
func (p *Payment) Validate() error {
	if p.ContractID == "" {
		return ierr.NewError("invalid contract id").
			WithHint("Contract id is required").
			Mark(ierr.ErrValidation)
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return ierr.NewError("invalid amount").
			WithHint("Amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	if p.MonthsCovered <= 0 {
		return ierr.NewError("invalid months covered").
			WithHint("Months covered must be at least 1").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TableName returns the table name for rent payments
func (p *Payment) TableName() string {
	return "rent_payments"
}
