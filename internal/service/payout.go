package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/leaseflow/leaseflow/internal/domain/contract"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/types"
)

// RoutingResult reports where a payment went. A payment is wholly immediate
// or wholly escrowed, never split.
type RoutingResult struct {
	PayoutRoute   types.PayoutRoute `json:"payout_route"`
	Amount        decimal.Decimal   `json:"amount"`
	TransactionID *string           `json:"transaction_id,omitempty"`
	EscrowID      *string           `json:"escrow_id,omitempty"`
}

// PayoutService applies the single routing rule: MONTHLY payout contracts
// credit the landlord immediately, YEARLY payout contracts accumulate in
// escrow until the contract expires.
type PayoutService interface {
	RoutePayment(ctx context.Context, c *contract.RentContract, amount decimal.Decimal) (*RoutingResult, error)
}

type payoutService struct {
	ServiceParams
	escrowService EscrowService
}

func NewPayoutService(params ServiceParams, escrowService EscrowService) PayoutService {
	return &payoutService{
		ServiceParams: params,
		escrowService: escrowService,
	}
}

func (s *payoutService) RoutePayment(ctx context.Context, c *contract.RentContract, amount decimal.Decimal) (*RoutingResult, error) {
	if c == nil {
		return nil, ierr.NewError("missing contract").
			WithHint("Contract is required to route a payment").
			Mark(ierr.ErrValidation)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ierr.NewError("invalid amount").
			WithHint("Payment amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}

	switch c.PayoutType {
	case types.PayoutTypeMonthly:
		receipt, err := s.PayoutGateway.Credit(ctx, c.LandlordID, amount)
		if err != nil {
			return nil, err
		}

		s.Logger.Infow("routed payment to immediate landlord credit",
			"contract_id", c.ID,
			"landlord_id", c.LandlordID,
			"amount", amount,
			"transaction_id", receipt.TransactionID,
		)

		return &RoutingResult{
			PayoutRoute:   types.PayoutRouteImmediate,
			Amount:        amount,
			TransactionID: &receipt.TransactionID,
		}, nil

	case types.PayoutTypeYearly:
		balance, err := s.escrowService.AddToEscrow(ctx, c.LandlordID, amount, c.ID)
		if err != nil {
			return nil, err
		}

		s.Logger.Infow("routed payment to escrow",
			"contract_id", c.ID,
			"landlord_id", c.LandlordID,
			"amount", amount,
			"escrow_id", balance.ID,
		)

		return &RoutingResult{
			PayoutRoute: types.PayoutRouteEscrow,
			Amount:      amount,
			EscrowID:    &balance.ID,
		}, nil

	default:
		return nil, ierr.NewError("invalid payout type").
			WithHintf("Contract %s has unsupported payout type %s", c.ID, c.PayoutType).
			Mark(ierr.ErrValidation)
	}
}
