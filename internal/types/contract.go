package types

import ierr "github.com/leaseflow/leaseflow/internal/errors"

// ContractStatus is the business lifecycle state of a rent contract.
// EXPIRED and TERMINATED are terminal.
type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "ACTIVE"
	ContractStatusExpired    ContractStatus = "EXPIRED"
	ContractStatusTerminated ContractStatus = "TERMINATED"
)

func (s ContractStatus) Validate() error {
	switch s {
	case ContractStatusActive, ContractStatusExpired, ContractStatusTerminated:
		return nil
	default:
		return ierr.NewError("invalid contract status").
			WithHintf("Contract status must be one of ACTIVE, EXPIRED, TERMINATED, got %s", s).
			Mark(ierr.ErrValidation)
	}
}

// contractTransitions is the allowed-transitions table for contract statuses.
// ACTIVE is the only re-entrant state; the terminal states have no exits.
var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractStatusActive: {ContractStatusExpired, ContractStatusTerminated},
}

// CanTransitionTo reports whether a contract in status s may move to target.
// Writing the current status again is treated as a valid no-op.
func (s ContractStatus) CanTransitionTo(target ContractStatus) bool {
	if s == target {
		return true
	}
	for _, allowed := range contractTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s ContractStatus) IsTerminal() bool {
	return len(contractTransitions[s]) == 0
}

// PayoutType is the landlord's payout preference on a contract. MONTHLY
// payments are credited immediately; YEARLY payments accumulate in escrow
// until the contract expires.
type PayoutType string

const (
	PayoutTypeMonthly PayoutType = "MONTHLY"
	PayoutTypeYearly  PayoutType = "YEARLY"
)

func (p PayoutType) Validate() error {
	switch p {
	case PayoutTypeMonthly, PayoutTypeYearly:
		return nil
	default:
		return ierr.NewError("invalid payout type").
			WithHintf("Payout type must be MONTHLY or YEARLY, got %s", p).
			Mark(ierr.ErrValidation)
	}
}

// ContractFilter holds the conjunctive (AND) filters supported by contract
// list queries.
type ContractFilter struct {
	*QueryFilter

	TenantID       *string         `json:"tenant_id,omitempty" form:"tenant_id"`
	LandlordID     *string         `json:"landlord_id,omitempty" form:"landlord_id"`
	PropertyID     *string         `json:"property_id,omitempty" form:"property_id"`
	ContractStatus *ContractStatus `json:"contract_status,omitempty" form:"contract_status"`
}

func NewContractFilter() *ContractFilter {
	return &ContractFilter{QueryFilter: NewDefaultQueryFilter()}
}

func NewNoLimitContractFilter() *ContractFilter {
	return &ContractFilter{QueryFilter: NewNoLimitQueryFilter()}
}

func (f *ContractFilter) Validate() error {
	if f.ContractStatus != nil {
		if err := f.ContractStatus.Validate(); err != nil {
			return err
		}
	}
	return nil
}
