package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leaseflow/leaseflow/internal/domain/escrow"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
)

// InMemoryEscrowStore implements escrow.Repository with the same accumulate
// and release-guard semantics the postgres upsert provides.
type InMemoryEscrowStore struct {
	mu       sync.RWMutex
	balances map[string]*escrow.EscrowBalance
}

func NewInMemoryEscrowStore() *InMemoryEscrowStore {
	return &InMemoryEscrowStore{
		balances: make(map[string]*escrow.EscrowBalance),
	}
}

func copyBalance(e *escrow.EscrowBalance) *escrow.EscrowBalance {
	cp := *e
	return &cp
}

func (s *InMemoryEscrowStore) Get(ctx context.Context, id string) (*escrow.EscrowBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.balances[id]
	if !ok {
		return nil, ierr.NewError("escrow balance not found").
			WithHintf("Escrow balance %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyBalance(e), nil
}

func (s *InMemoryEscrowStore) Accumulate(ctx context.Context, deposit *escrow.EscrowBalance) (*escrow.EscrowBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.balances {
		if e.ContractID == deposit.ContractID && !e.IsReleased {
			e.TotalEscrowed = e.TotalEscrowed.Add(deposit.TotalEscrowed)
			e.MonthsAccumulated++
			e.UpdatedAt = time.Now().UTC()
			return copyBalance(e), nil
		}
	}

	s.balances[deposit.ID] = copyBalance(deposit)
	return copyBalance(deposit), nil
}

func (s *InMemoryEscrowStore) GetUnreleasedByContract(ctx context.Context, contractID string) (*escrow.EscrowBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.balances {
		if e.ContractID == contractID && !e.IsReleased {
			return copyBalance(e), nil
		}
	}
	return nil, ierr.NewError("no active escrow").
		WithHintf("Contract %s has no unreleased escrow balance", contractID).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryEscrowStore) ListReleasable(ctx context.Context, asOf time.Time) ([]*escrow.EscrowBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*escrow.EscrowBalance
	for _, e := range s.balances {
		if !e.IsReleased && !e.ExpectedReleaseDate.After(asOf) {
			result = append(result, copyBalance(e))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ExpectedReleaseDate.Before(result[j].ExpectedReleaseDate)
	})
	return result, nil
}

func (s *InMemoryEscrowStore) ListUnreleasedByLandlord(ctx context.Context, landlordID string) ([]*escrow.EscrowBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*escrow.EscrowBalance
	for _, e := range s.balances {
		if e.LandlordID == landlordID && !e.IsReleased {
			result = append(result, copyBalance(e))
		}
	}
	return result, nil
}

func (s *InMemoryEscrowStore) MarkReleased(ctx context.Context, id string, releasedAt time.Time, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.balances[id]
	if !ok || e.IsReleased {
		return ierr.NewError("escrow balance not found or already released").
			WithHintf("Escrow balance %s was not found or already released", id).
			Mark(ierr.ErrInvalidOperation)
	}

	e.IsReleased = true
	e.ReleasedAt = &releasedAt
	e.ReleasedAmount = &amount
	e.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryEscrowStore) SumUnreleasedByLandlord(ctx context.Context, landlordID string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, e := range s.balances {
		if e.LandlordID == landlordID && !e.IsReleased {
			total = total.Add(e.TotalEscrowed)
		}
	}
	return total, nil
}
