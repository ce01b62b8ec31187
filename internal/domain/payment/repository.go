package payment

import "context"

// Repository defines the interface for rent payment persistence
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	ListByContract(ctx context.Context, contractID string) ([]*Payment, error)
}
