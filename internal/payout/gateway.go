package payout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/logger"
	"github.com/leaseflow/leaseflow/internal/types"
)

// TransactionReceipt is the gateway's acknowledgement of a landlord credit
type TransactionReceipt struct {
	TransactionID string          `json:"transaction_id"`
	LandlordID    string          `json:"landlord_id"`
	Amount        decimal.Decimal `json:"amount"`
	CreditedAt    time.Time       `json:"credited_at"`
}

// Gateway is the wallet/payment-gateway capability the core credits
// landlords through. The production integration is pending; the logging
// implementation below records the intent and returns a synthetic receipt.
type Gateway interface {
	Credit(ctx context.Context, landlordID string, amount decimal.Decimal) (*TransactionReceipt, error)
}

type logGateway struct {
	logger *logger.Logger
}

// NewLogGateway returns a Gateway that logs credit intents instead of
// moving money. TODO: replace with the wallet service client once its API
// is finalized.
func NewLogGateway(logger *logger.Logger) Gateway {
	return &logGateway{logger: logger}
}

func (g *logGateway) Credit(ctx context.Context, landlordID string, amount decimal.Decimal) (*TransactionReceipt, error) {
	if landlordID == "" {
		return nil, ierr.NewError("invalid landlord id").
			WithHint("Landlord id is required").
			Mark(ierr.ErrValidation)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ierr.NewError("invalid credit amount").
			WithHint("Credit amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}

	receipt := &TransactionReceipt{
		TransactionID: types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYOUT_TXN),
		LandlordID:    landlordID,
		Amount:        amount,
		CreditedAt:    time.Now().UTC(),
	}

	g.logger.Infow("crediting landlord wallet",
		"landlord_id", landlordID,
		"amount", amount,
		"transaction_id", receipt.TransactionID,
	)

	return receipt, nil
}
