package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/leaseflow/leaseflow/internal/api/dto"
	"github.com/leaseflow/leaseflow/internal/domain/escrow"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/types"
)

// EscrowService is the escrow ledger: it accumulates YEARLY-payout rent per
// contract and releases balances at expiry or on demand.
type EscrowService interface {
	AddToEscrow(ctx context.Context, landlordID string, amount decimal.Decimal, contractID string) (*escrow.EscrowBalance, error)
	CheckEscrowReleases(ctx context.Context) ([]*escrow.ReleaseResult, error)
	ReleaseEscrowBalance(ctx context.Context, escrowID string) (*escrow.ReleaseResult, error)
	ForceReleaseEscrow(ctx context.Context, contractID string, reason *string) (*escrow.ReleaseResult, error)
	GetTotalEscrowedAmount(ctx context.Context, landlordID string) (decimal.Decimal, error)
	GetLandlordEscrowBalances(ctx context.Context, landlordID string) (*dto.LandlordEscrowResponse, error)
}

type escrowService struct {
	ServiceParams
}

func NewEscrowService(params ServiceParams) EscrowService {
	return &escrowService{ServiceParams: params}
}

// AddToEscrow deposits one month of rent into the contract's unreleased
// balance, creating it on first deposit. One call credits exactly one month
// regardless of elapsed time; the accumulation itself is an atomic upsert.
func (s *escrowService) AddToEscrow(ctx context.Context, landlordID string, amount decimal.Decimal, contractID string) (*escrow.EscrowBalance, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ierr.NewError("invalid amount").
			WithHint("Escrow deposit must be greater than 0").
			Mark(ierr.ErrValidation)
	}

	c, err := s.ContractRepo.Get(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c.LandlordID != landlordID {
		return nil, ierr.NewError("landlord mismatch").
			WithHintf("Contract %s does not belong to landlord %s", contractID, landlordID).
			Mark(ierr.ErrValidation)
	}
	if c.PayoutType != types.PayoutTypeYearly {
		return nil, ierr.NewError("invalid payout type for escrow").
			WithHintf("Contract %s has payout type %s; only YEARLY contracts accumulate escrow", contractID, c.PayoutType).
			Mark(ierr.ErrValidation)
	}

	deposit := &escrow.EscrowBalance{
		ID:                  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ESCROW_BALANCE),
		ContractID:          contractID,
		LandlordID:          landlordID,
		TotalEscrowed:       amount,
		MonthsAccumulated:   1,
		ExpectedReleaseDate: c.ExpiryDate,
		IsReleased:          false,
		BaseModel:           types.GetDefaultBaseModel(ctx),
	}
	if err := deposit.Validate(); err != nil {
		return nil, err
	}

	return s.EscrowRepo.Accumulate(ctx, deposit)
}

// CheckEscrowReleases releases every unreleased balance whose expected
// release date has passed. Each release is independent; a failure is logged
// and skipped so one bad balance never blocks the sweep.
func (s *escrowService) CheckEscrowReleases(ctx context.Context) ([]*escrow.ReleaseResult, error) {
	now := time.Now().UTC()

	balances, err := s.EscrowRepo.ListReleasable(ctx, now)
	if err != nil {
		return nil, err
	}

	results := make([]*escrow.ReleaseResult, 0, len(balances))
	for _, b := range balances {
		result, err := s.ReleaseEscrowBalance(ctx, b.ID)
		if err != nil {
			s.Logger.Errorw("failed to release escrow balance",
				"escrow_id", b.ID,
				"contract_id", b.ContractID,
				"error", err,
			)
			continue
		}
		results = append(results, result)
	}

	return results, nil
}

// ReleaseEscrowBalance releases a single balance exactly once. The guarded
// update on is_released runs inside one transaction with the credit, so a
// manual trigger racing the scheduled sweep cannot double-release.
func (s *escrowService) ReleaseEscrowBalance(ctx context.Context, escrowID string) (*escrow.ReleaseResult, error) {
	var result *escrow.ReleaseResult

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		balance, err := s.EscrowRepo.Get(ctx, escrowID)
		if err != nil {
			return err
		}
		if balance.IsReleased {
			return ierr.NewError("escrow balance not found or already released").
				WithHintf("Escrow balance %s has already been released", escrowID).
				Mark(ierr.ErrInvalidOperation)
		}
		if balance.TotalEscrowed.LessThanOrEqual(decimal.Zero) {
			return ierr.NewError("invalid release amount").
				WithHintf("Escrow balance %s has nothing to release", escrowID).
				Mark(ierr.ErrInvalidOperation)
		}

		releasedAt := time.Now().UTC()
		if err := s.EscrowRepo.MarkReleased(ctx, escrowID, releasedAt, balance.TotalEscrowed); err != nil {
			return err
		}

		receipt, err := s.PayoutGateway.Credit(ctx, balance.LandlordID, balance.TotalEscrowed)
		if err != nil {
			return err
		}

		result = &escrow.ReleaseResult{
			EscrowID:      balance.ID,
			ContractID:    balance.ContractID,
			LandlordID:    balance.LandlordID,
			Amount:        balance.TotalEscrowed,
			TransactionID: receipt.TransactionID,
			ReleasedAt:    releasedAt,
		}

		s.Logger.Infow("released escrow balance",
			"escrow_id", balance.ID,
			"contract_id", balance.ContractID,
			"landlord_id", balance.LandlordID,
			"amount", balance.TotalEscrowed,
			"transaction_id", receipt.TransactionID,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ForceReleaseEscrow releases a contract's unreleased balance immediately,
// bypassing the expected release date. This is the designed mechanism for
// early lease termination.
func (s *escrowService) ForceReleaseEscrow(ctx context.Context, contractID string, reason *string) (*escrow.ReleaseResult, error) {
	balance, err := s.EscrowRepo.GetUnreleasedByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("forcing early escrow release",
		"escrow_id", balance.ID,
		"contract_id", contractID,
		"reason", lo.FromPtrOr(reason, "unspecified"),
	)

	return s.ReleaseEscrowBalance(ctx, balance.ID)
}

// GetTotalEscrowedAmount sums the landlord's unreleased balances; zero when
// none exist.
func (s *escrowService) GetTotalEscrowedAmount(ctx context.Context, landlordID string) (decimal.Decimal, error) {
	return s.EscrowRepo.SumUnreleasedByLandlord(ctx, landlordID)
}

func (s *escrowService) GetLandlordEscrowBalances(ctx context.Context, landlordID string) (*dto.LandlordEscrowResponse, error) {
	balances, err := s.EscrowRepo.ListUnreleasedByLandlord(ctx, landlordID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	items := make([]*dto.EscrowBalanceResponse, 0, len(balances))
	for _, b := range balances {
		total = total.Add(b.TotalEscrowed)
		items = append(items, &dto.EscrowBalanceResponse{EscrowBalance: b})
	}

	return &dto.LandlordEscrowResponse{
		Items:         items,
		TotalEscrowed: total,
	}, nil
}
