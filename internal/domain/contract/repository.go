package contract

import (
	"context"
	"time"

	"github.com/leaseflow/leaseflow/internal/types"
)

// Repository defines the interface for rent contract persistence
type Repository interface {
	Create(ctx context.Context, c *RentContract) error
	Get(ctx context.Context, id string) (*RentContract, error)
	Update(ctx context.Context, c *RentContract) error
	List(ctx context.Context, filter *types.ContractFilter) ([]*RentContract, error)
	Count(ctx context.Context, filter *types.ContractFilter) (int, error)

	// GetActiveByTenant returns the tenant's single ACTIVE contract, or a
	// not-found error when the tenant has none.
	GetActiveByTenant(ctx context.Context, tenantID string) (*RentContract, error)

	// ListDue returns ACTIVE contracts whose next payment due date is on or
	// before asOf.
	ListDue(ctx context.Context, asOf time.Time) ([]*RentContract, error)
}
