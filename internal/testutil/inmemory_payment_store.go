package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/leaseflow/leaseflow/internal/domain/payment"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
)

// InMemoryPaymentStore implements payment.Repository over a map
type InMemoryPaymentStore struct {
	mu       sync.RWMutex
	payments map[string]*payment.Payment
}

func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		payments: make(map[string]*payment.Payment),
	}
}

func copyPayment(p *payment.Payment) *payment.Payment {
	cp := *p
	return &cp
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID] = copyPayment(p)
	return nil
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, ierr.NewError("payment not found").
			WithHintf("Rent payment %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyPayment(p), nil
}

func (s *InMemoryPaymentStore) ListByContract(ctx context.Context, contractID string) ([]*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*payment.Payment
	for _, p := range s.payments {
		if p.ContractID == contractID {
			result = append(result, copyPayment(p))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PaidAt.After(result[j].PaidAt)
	})
	return result, nil
}
