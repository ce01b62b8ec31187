package types

import ierr "github.com/leaseflow/leaseflow/internal/errors"

// UserRole identifies what a user may do in the system. The core only ever
// reads roles to validate landlord/tenant identities before risky operations.
type UserRole string

const (
	UserRoleTenant      UserRole = "tenant"
	UserRoleLandlord    UserRole = "landlord"
	UserRoleFacilitator UserRole = "facilitator"
	UserRoleAdmin       UserRole = "admin"
)

func (r UserRole) Validate() error {
	switch r {
	case UserRoleTenant, UserRoleLandlord, UserRoleFacilitator, UserRoleAdmin:
		return nil
	default:
		return ierr.NewError("invalid user role").
			WithHintf("Unknown role %s", r).
			Mark(ierr.ErrValidation)
	}
}
