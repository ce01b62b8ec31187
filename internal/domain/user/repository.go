package user

import "context"

// Repository defines the read-only lookup the core needs for identity checks
type Repository interface {
	Get(ctx context.Context, id string) (*User, error)
}
