package dto

import (
	"github.com/shopspring/decimal"

	"github.com/leaseflow/leaseflow/internal/domain/escrow"
)

// EscrowBalanceResponse is the API representation of an escrow balance
type EscrowBalanceResponse struct {
	*escrow.EscrowBalance
}

// LandlordEscrowResponse lists a landlord's unreleased balances with their sum
type LandlordEscrowResponse struct {
	Items         []*EscrowBalanceResponse `json:"items"`
	TotalEscrowed decimal.Decimal          `json:"total_escrowed"`
}

// ForceReleaseRequest is the payload for a manual early escrow release
type ForceReleaseRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ReleaseResultResponse reports a single released escrow balance
type ReleaseResultResponse struct {
	*escrow.ReleaseResult
}
