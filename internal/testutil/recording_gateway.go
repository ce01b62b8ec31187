package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leaseflow/leaseflow/internal/payout"
	"github.com/leaseflow/leaseflow/internal/types"
)

var _ payout.Gateway = (*RecordingGateway)(nil)

// CreditCall records one gateway credit
type CreditCall struct {
	LandlordID string
	Amount     decimal.Decimal
}

// RecordingGateway records every credit and can be primed to fail
type RecordingGateway struct {
	mu      sync.Mutex
	Credits []CreditCall

	// FailWith, when set, is returned by the next Credit call and cleared
	FailWith error
}

func NewRecordingGateway() *RecordingGateway {
	return &RecordingGateway{}
}

func (g *RecordingGateway) Credit(ctx context.Context, landlordID string, amount decimal.Decimal) (*payout.TransactionReceipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.FailWith != nil {
		err := g.FailWith
		g.FailWith = nil
		return nil, err
	}

	g.Credits = append(g.Credits, CreditCall{LandlordID: landlordID, Amount: amount})

	return &payout.TransactionReceipt{
		TransactionID: types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYOUT_TXN),
		LandlordID:    landlordID,
		Amount:        amount,
		CreditedAt:    time.Now().UTC(),
	}, nil
}

// CreditCount returns how many credits were recorded
func (g *RecordingGateway) CreditCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Credits)
}
