package dto

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leaseflow/leaseflow/internal/domain/contract"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/types"
)

// CreateRentContractRequest is the payload for creating a rent contract
type CreateRentContractRequest struct {
	TenantID           string          `json:"tenant_id" binding:"required"`
	LandlordID         string          `json:"landlord_id" binding:"required"`
	PropertyID         string          `json:"property_id" binding:"required"`
	UnitID             string          `json:"unit_id" binding:"required"`
	MonthlyAmount      decimal.Decimal `json:"monthly_amount" binding:"required"`
	ExpiryDate         time.Time       `json:"expiry_date" binding:"required"`
	PayoutType         types.PayoutType `json:"payout_type" binding:"required"`
	IsExistingTenant   bool            `json:"is_existing_tenant"`
	OriginalExpiryDate *time.Time      `json:"original_expiry_date,omitempty"`
}

// Validate enforces the creation preconditions relative to now
func (r *CreateRentContractRequest) Validate(now time.Time) error {
	if r.MonthlyAmount.LessThanOrEqual(decimal.Zero) {
		return ierr.NewError("invalid monthly amount").
			WithHint("Monthly amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	if err := r.PayoutType.Validate(); err != nil {
		return err
	}
	if !r.ExpiryDate.After(now) {
		return ierr.NewError("invalid expiry date").
			WithHint("Expiry date must be in the future").
			Mark(ierr.ErrValidation)
	}
	if r.IsExistingTenant {
		if r.OriginalExpiryDate == nil {
			return ierr.NewError("missing original expiry date").
				WithHint("Original expiry date is required for existing tenants").
				Mark(ierr.ErrValidation)
		}
		if !r.OriginalExpiryDate.After(now) {
			return ierr.NewError("invalid original expiry date").
				WithHint("Original expiry date must be in the future").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// ToContract builds the domain model with generated id and base fields.
// Schedule fields are filled in by the contract service.
func (r *CreateRentContractRequest) ToContract(ctx context.Context) *contract.RentContract {
	return &contract.RentContract{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RENT_CONTRACT),
		TenantID:           r.TenantID,
		LandlordID:         r.LandlordID,
		PropertyID:         r.PropertyID,
		UnitID:             r.UnitID,
		MonthlyAmount:      r.MonthlyAmount,
		ExpiryDate:         r.ExpiryDate,
		PayoutType:         r.PayoutType,
		ContractStatus:     types.ContractStatusActive,
		IsExistingTenant:   r.IsExistingTenant,
		OriginalExpiryDate: r.OriginalExpiryDate,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
}

// ArrearsSummary is attached to the create response when an existing tenant
// already owes months at contract creation time.
type ArrearsSummary struct {
	MonthsOverdue  int             `json:"months_overdue"`
	TotalArrears   decimal.Decimal `json:"total_arrears"`
	NextPaymentDue time.Time       `json:"next_payment_due"`
	Message        string          `json:"message"`
}

// NewArrearsSummary converts the calculator snapshot into a response summary
func NewArrearsSummary(snapshot contract.ArrearsSnapshot) *ArrearsSummary {
	return &ArrearsSummary{
		MonthsOverdue:  snapshot.MonthsOverdue,
		TotalArrears:   snapshot.TotalArrears,
		NextPaymentDue: snapshot.NextPaymentDue,
		Message: fmt.Sprintf(
			"Tenant owes %d month(s) of rent totalling %s; next payment due %s",
			snapshot.MonthsOverdue,
			snapshot.TotalArrears.String(),
			snapshot.NextPaymentDue.Format("2006-01-02"),
		),
	}
}

// RentContractResponse is the API representation of a rent contract
type RentContractResponse struct {
	*contract.RentContract
}

// CreateRentContractResponse carries the created contract plus an arrears
// summary when the tenant starts behind.
type CreateRentContractResponse struct {
	Contract *RentContractResponse `json:"contract"`
	Arrears  *ArrearsSummary       `json:"arrears,omitempty"`
}

// ListContractsResponse is a paginated contract listing
type ListContractsResponse struct {
	Items  []*RentContractResponse `json:"items"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
}

// UpdateContractStatusRequest is the payload for a status transition
type UpdateContractStatusRequest struct {
	ContractStatus types.ContractStatus `json:"contract_status" binding:"required"`
}

func (r *UpdateContractStatusRequest) Validate() error {
	return r.ContractStatus.Validate()
}
