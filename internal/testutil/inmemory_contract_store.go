package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/leaseflow/leaseflow/internal/domain/contract"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/types"
)

// InMemoryContractStore implements contract.Repository over a map. It
// enforces the same single-active-contract rule the partial unique index
// enforces in postgres.
type InMemoryContractStore struct {
	mu        sync.RWMutex
	contracts map[string]*contract.RentContract

	// Error injection for scheduler failure-path tests
	ListDueErr error
	CountErr   error
}

func NewInMemoryContractStore() *InMemoryContractStore {
	return &InMemoryContractStore{
		contracts: make(map[string]*contract.RentContract),
	}
}

func copyContract(c *contract.RentContract) *contract.RentContract {
	cp := *c
	return &cp
}

func (s *InMemoryContractStore) Create(ctx context.Context, c *contract.RentContract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ContractStatus == types.ContractStatusActive {
		for _, existing := range s.contracts {
			if existing.TenantID == c.TenantID && existing.ContractStatus == types.ContractStatusActive {
				return ierr.NewError("duplicate active contract").
					WithHint("Tenant already has an active rent contract").
					Mark(ierr.ErrAlreadyExists)
			}
		}
	}

	s.contracts[c.ID] = copyContract(c)
	return nil
}

func (s *InMemoryContractStore) Get(ctx context.Context, id string) (*contract.RentContract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contracts[id]
	if !ok {
		return nil, ierr.NewError("contract not found").
			WithHintf("Rent contract %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyContract(c), nil
}

func (s *InMemoryContractStore) Update(ctx context.Context, c *contract.RentContract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[c.ID]; !ok {
		return ierr.NewError("contract not found").
			WithHintf("Rent contract %s was not found", c.ID).
			Mark(ierr.ErrNotFound)
	}
	s.contracts[c.ID] = copyContract(c)
	return nil
}

func (s *InMemoryContractStore) matches(c *contract.RentContract, filter *types.ContractFilter) bool {
	if filter == nil {
		return true
	}
	if filter.TenantID != nil && c.TenantID != *filter.TenantID {
		return false
	}
	if filter.LandlordID != nil && c.LandlordID != *filter.LandlordID {
		return false
	}
	if filter.PropertyID != nil && c.PropertyID != *filter.PropertyID {
		return false
	}
	if filter.ContractStatus != nil && c.ContractStatus != *filter.ContractStatus {
		return false
	}
	return true
}

func (s *InMemoryContractStore) List(ctx context.Context, filter *types.ContractFilter) ([]*contract.RentContract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*contract.RentContract
	for _, c := range s.contracts {
		if s.matches(c, filter) {
			result = append(result, copyContract(c))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter != nil && !filter.IsUnlimited() {
		offset := filter.GetOffset()
		if offset > len(result) {
			offset = len(result)
		}
		result = result[offset:]
		if limit := filter.GetLimit(); len(result) > limit {
			result = result[:limit]
		}
	}
	return result, nil
}

func (s *InMemoryContractStore) Count(ctx context.Context, filter *types.ContractFilter) (int, error) {
	if s.CountErr != nil {
		return 0, s.CountErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, c := range s.contracts {
		if s.matches(c, filter) {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryContractStore) GetActiveByTenant(ctx context.Context, tenantID string) (*contract.RentContract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.contracts {
		if c.TenantID == tenantID && c.ContractStatus == types.ContractStatusActive {
			return copyContract(c), nil
		}
	}
	return nil, ierr.NewError("no active contract").
		WithHintf("Tenant %s has no active rent contract", tenantID).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryContractStore) ListDue(ctx context.Context, asOf time.Time) ([]*contract.RentContract, error) {
	if s.ListDueErr != nil {
		return nil, s.ListDueErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*contract.RentContract
	for _, c := range s.contracts {
		if c.ContractStatus == types.ContractStatusActive && !c.NextPaymentDue.After(asOf) {
			result = append(result, copyContract(c))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].NextPaymentDue.Before(result[j].NextPaymentDue)
	})
	return result, nil
}
