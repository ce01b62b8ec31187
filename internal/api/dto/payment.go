package dto

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/types"
)

// ProcessPaymentRequest is the payload for a monthly or arrears payment
type ProcessPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	Reference     *string         `json:"reference,omitempty"`
}

func (r *ProcessPaymentRequest) Validate() error {
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ierr.NewError("invalid amount").
			WithHint("Amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentResult reports how a payment was accepted and routed
type PaymentResult struct {
	Success        bool              `json:"success"`
	Message        string            `json:"message"`
	PaymentID      string            `json:"payment_id"`
	ContractID     string            `json:"contract_id"`
	Amount         decimal.Decimal   `json:"amount"`
	PaymentType    types.PaymentType `json:"payment_type"`
	PayoutRoute    types.PayoutRoute `json:"payout_route"`
	MonthsCovered  int               `json:"months_covered"`
	TransactionID  *string           `json:"transaction_id,omitempty"`
	NextPaymentDue time.Time         `json:"next_payment_due"`
}
