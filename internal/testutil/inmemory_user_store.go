package testutil

import (
	"context"
	"sync"

	"github.com/leaseflow/leaseflow/internal/domain/user"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
)

// InMemoryUserStore implements the read-only user lookup
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*user.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		users: make(map[string]*user.User),
	}
}

func (s *InMemoryUserStore) Add(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

func (s *InMemoryUserStore) Get(ctx context.Context, id string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ierr.NewError("user not found").
			WithHintf("User %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}
