package notification

import (
	"context"
	"time"
)

// Repository defines the interface for notification persistence
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	Update(ctx context.Context, n *Notification) error
	CountPending(ctx context.Context) (int, error)

	// DeleteOldFinished removes sent/failed notifications created before the
	// cutoff. Returns the number of rows removed.
	DeleteOldFinished(ctx context.Context, cutoff time.Time) (int, error)

	// FailStalePending marks pending notifications created before the cutoff
	// as failed. Returns the number of rows updated.
	FailStalePending(ctx context.Context, cutoff time.Time) (int, error)
}
