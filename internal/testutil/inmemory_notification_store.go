package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/leaseflow/leaseflow/internal/domain/notification"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/types"
)

// InMemoryNotificationStore implements notification.Repository over a map
type InMemoryNotificationStore struct {
	mu            sync.RWMutex
	notifications map[string]*notification.Notification

	CountPendingErr error
}

func NewInMemoryNotificationStore() *InMemoryNotificationStore {
	return &InMemoryNotificationStore{
		notifications: make(map[string]*notification.Notification),
	}
}

func copyNotification(n *notification.Notification) *notification.Notification {
	cp := *n
	return &cp
}

func (s *InMemoryNotificationStore) Create(ctx context.Context, n *notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = copyNotification(n)
	return nil
}

func (s *InMemoryNotificationStore) Update(ctx context.Context, n *notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[n.ID]; !ok {
		return ierr.NewError("notification not found").
			WithHintf("Notification %s was not found", n.ID).
			Mark(ierr.ErrNotFound)
	}
	s.notifications[n.ID] = copyNotification(n)
	return nil
}

func (s *InMemoryNotificationStore) CountPending(ctx context.Context) (int, error) {
	if s.CountPendingErr != nil {
		return 0, s.CountPendingErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if n.NotificationStatus == types.NotificationStatusPending {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryNotificationStore) DeleteOldFinished(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, n := range s.notifications {
		finished := n.NotificationStatus == types.NotificationStatusSent ||
			n.NotificationStatus == types.NotificationStatusFailed
		if finished && n.CreatedAt.Before(cutoff) {
			delete(s.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *InMemoryNotificationStore) FailStalePending(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for _, n := range s.notifications {
		if n.NotificationStatus == types.NotificationStatusPending && n.CreatedAt.Before(cutoff) {
			n.NotificationStatus = types.NotificationStatusFailed
			updated++
		}
	}
	return updated, nil
}

// All returns a snapshot of every stored notification
func (s *InMemoryNotificationStore) All() []*notification.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*notification.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		result = append(result, copyNotification(n))
	}
	return result
}
