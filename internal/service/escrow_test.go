package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/leaseflow/leaseflow/internal/api/dto"
	"github.com/leaseflow/leaseflow/internal/domain/contract"
	"github.com/leaseflow/leaseflow/internal/domain/escrow"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/testutil"
	"github.com/leaseflow/leaseflow/internal/types"
)

type EscrowServiceSuite struct {
	testutil.BaseServiceTestSuite
	service         EscrowService
	contractService ContractService
}

func TestEscrowService(t *testing.T) {
	suite.Run(t, new(EscrowServiceSuite))
}

func (s *EscrowServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := buildParams(&s.BaseServiceTestSuite)
	s.service = NewEscrowService(params)
	s.contractService = NewContractService(params, NewPayoutService(params, s.service))
}

func (s *EscrowServiceSuite) seedYearlyContract(tenantID string) *contract.RentContract {
	now := time.Now().UTC()
	c := &contract.RentContract{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RENT_CONTRACT),
		TenantID:        tenantID,
		LandlordID:      "user_landlord_1",
		PropertyID:      "prop_1",
		UnitID:          "unit_1",
		MonthlyAmount:   decimal.NewFromInt(2500),
		ExpiryDate:      now.AddDate(1, 0, 0),
		PayoutType:      types.PayoutTypeYearly,
		NextPaymentDue:  types.BeginningOfDay(now),
		TransitionStart: types.BeginningOfDay(now),
		ContractStatus:  types.ContractStatusActive,
		BaseModel:       types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(s.GetStores().ContractRepo.Create(s.GetContext(), c))
	return c
}

// seedBalance inserts an escrow balance directly, bypassing the deposit
// preconditions, so sweep tests can shape release dates and amounts freely.
func (s *EscrowServiceSuite) seedBalance(contractID string, amount decimal.Decimal, expectedRelease time.Time) *escrow.EscrowBalance {
	b, err := s.GetStores().EscrowRepo.Accumulate(s.GetContext(), &escrow.EscrowBalance{
		ID:                  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ESCROW_BALANCE),
		ContractID:          contractID,
		LandlordID:          "user_landlord_1",
		TotalEscrowed:       amount,
		MonthsAccumulated:   1,
		ExpectedReleaseDate: expectedRelease,
		BaseModel:           types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)
	return b
}

func (s *EscrowServiceSuite) TestAddToEscrow_Accumulates() {
	c := s.seedYearlyContract("user_tenant_1")
	amount := decimal.NewFromInt(2500)

	var balance *escrow.EscrowBalance
	var err error
	for i := 0; i < 3; i++ {
		balance, err = s.service.AddToEscrow(s.GetContext(), c.LandlordID, amount, c.ID)
		s.Require().NoError(err)
	}

	s.True(balance.TotalEscrowed.Equal(decimal.NewFromInt(7500)), "got %s", balance.TotalEscrowed)
	s.Equal(3, balance.MonthsAccumulated)
	s.False(balance.IsReleased)
	s.Equal(c.ExpiryDate, balance.ExpectedReleaseDate)
}

func (s *EscrowServiceSuite) TestAddToEscrow_Preconditions() {
	c := s.seedYearlyContract("user_tenant_1")

	s.Run("non-positive amount", func() {
		_, err := s.service.AddToEscrow(s.GetContext(), c.LandlordID, decimal.Zero, c.ID)
		s.True(ierr.IsValidation(err))
	})

	s.Run("unknown contract", func() {
		_, err := s.service.AddToEscrow(s.GetContext(), c.LandlordID, decimal.NewFromInt(100), "rc_missing")
		s.True(ierr.IsNotFound(err))
	})

	s.Run("landlord mismatch", func() {
		_, err := s.service.AddToEscrow(s.GetContext(), "user_landlord_2", decimal.NewFromInt(100), c.ID)
		s.True(ierr.IsValidation(err))
	})

	s.Run("monthly payout contract", func() {
		monthly := s.seedYearlyContract("user_tenant_2")
		monthly.PayoutType = types.PayoutTypeMonthly
		s.Require().NoError(s.GetStores().ContractRepo.Update(s.GetContext(), monthly))

		_, err := s.service.AddToEscrow(s.GetContext(), monthly.LandlordID, decimal.NewFromInt(100), monthly.ID)
		s.True(ierr.IsValidation(err))
	})
}

func (s *EscrowServiceSuite) TestReleaseEscrowBalance_Once() {
	c := s.seedYearlyContract("user_tenant_1")
	b := s.seedBalance(c.ID, decimal.NewFromInt(5000), time.Now().UTC().AddDate(0, 0, -1))

	result, err := s.service.ReleaseEscrowBalance(s.GetContext(), b.ID)
	s.Require().NoError(err)
	s.True(result.Amount.Equal(decimal.NewFromInt(5000)))
	s.Equal(c.ID, result.ContractID)
	s.NotEmpty(result.TransactionID)
	s.Equal(1, s.GetGateway().CreditCount())

	// A second release of the same balance must fail and credit nothing
	_, err = s.service.ReleaseEscrowBalance(s.GetContext(), b.ID)
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Contains(allHints(err), "already been released")
	s.Equal(1, s.GetGateway().CreditCount())
}

func (s *EscrowServiceSuite) TestReleaseEscrowBalance_NothingToRelease() {
	c := s.seedYearlyContract("user_tenant_1")
	b := s.seedBalance(c.ID, decimal.Zero, time.Now().UTC().AddDate(0, 0, -1))

	_, err := s.service.ReleaseEscrowBalance(s.GetContext(), b.ID)
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Zero(s.GetGateway().CreditCount())
}

func (s *EscrowServiceSuite) TestForceReleaseEscrow_BypassesReleaseDate() {
	c := s.seedYearlyContract("user_tenant_1")
	_, err := s.service.AddToEscrow(s.GetContext(), c.LandlordID, decimal.NewFromInt(2500), c.ID)
	s.Require().NoError(err)

	// Expected release date is a year away; the forced release ignores it
	result, err := s.service.ForceReleaseEscrow(s.GetContext(), c.ID, nil)
	s.Require().NoError(err)
	s.True(result.Amount.Equal(decimal.NewFromInt(2500)))

	_, err = s.service.ForceReleaseEscrow(s.GetContext(), c.ID, nil)
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *EscrowServiceSuite) TestCheckEscrowReleases_OnlyPastDue() {
	now := time.Now().UTC()
	due := s.seedYearlyContract("user_tenant_1")
	notDue := s.seedYearlyContract("user_tenant_2")

	s.seedBalance(due.ID, decimal.NewFromInt(3000), now.AddDate(0, 0, -1))
	s.seedBalance(notDue.ID, decimal.NewFromInt(4000), now.AddDate(0, 6, 0))

	results, err := s.service.CheckEscrowReleases(s.GetContext())
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(due.ID, results[0].ContractID)

	// The future balance stays in the ledger untouched
	remaining, err := s.service.GetTotalEscrowedAmount(s.GetContext(), "user_landlord_1")
	s.Require().NoError(err)
	s.True(remaining.Equal(decimal.NewFromInt(4000)))
}

func (s *EscrowServiceSuite) TestCheckEscrowReleases_FailureIsolation() {
	now := time.Now().UTC()
	bad := s.seedYearlyContract("user_tenant_1")
	good := s.seedYearlyContract("user_tenant_2")

	// The zero balance fails its release guard; the sweep must carry on
	s.seedBalance(bad.ID, decimal.Zero, now.AddDate(0, 0, -2))
	s.seedBalance(good.ID, decimal.NewFromInt(6000), now.AddDate(0, 0, -1))

	results, err := s.service.CheckEscrowReleases(s.GetContext())
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(good.ID, results[0].ContractID)
}

func (s *EscrowServiceSuite) TestLandlordEscrowQueries() {
	c1 := s.seedYearlyContract("user_tenant_1")
	c2 := s.seedYearlyContract("user_tenant_2")

	total, err := s.service.GetTotalEscrowedAmount(s.GetContext(), "user_landlord_1")
	s.Require().NoError(err)
	s.True(total.IsZero())

	_, err = s.service.AddToEscrow(s.GetContext(), "user_landlord_1", decimal.NewFromInt(2500), c1.ID)
	s.Require().NoError(err)
	_, err = s.service.AddToEscrow(s.GetContext(), "user_landlord_1", decimal.NewFromInt(1800), c2.ID)
	s.Require().NoError(err)

	resp, err := s.service.GetLandlordEscrowBalances(s.GetContext(), "user_landlord_1")
	s.Require().NoError(err)
	s.Len(resp.Items, 2)
	s.True(resp.TotalEscrowed.Equal(decimal.NewFromInt(4300)))

	total, err = s.service.GetTotalEscrowedAmount(s.GetContext(), "user_landlord_1")
	s.Require().NoError(err)
	s.True(total.Equal(decimal.NewFromInt(4300)))
}

// TestYearlyPayoutEndToEnd walks the full yearly-payout flow: three monthly
// payments accumulate into a single escrow balance which is then released on
// early termination.
func (s *EscrowServiceSuite) TestYearlyPayoutEndToEnd() {
	resp, err := s.contractService.CreateRentContract(s.GetContext(), &dto.CreateRentContractRequest{
		TenantID:      "user_tenant_1",
		LandlordID:    "user_landlord_1",
		PropertyID:    "prop_1",
		UnitID:        "unit_1",
		MonthlyAmount: decimal.NewFromInt(2500),
		ExpiryDate:    time.Now().UTC().AddDate(1, 0, 0),
		PayoutType:    types.PayoutTypeYearly,
	})
	s.Require().NoError(err)
	contractID := resp.Contract.ID

	for i := 0; i < 3; i++ {
		if i > 0 {
			// Simulate a month passing by pulling the due date back to today
			c, err := s.GetStores().ContractRepo.Get(s.GetContext(), contractID)
			s.Require().NoError(err)
			c.NextPaymentDue = types.BeginningOfDay(time.Now().UTC())
			s.Require().NoError(s.GetStores().ContractRepo.Update(s.GetContext(), c))
		}

		result, err := s.contractService.ProcessMonthlyPayment(s.GetContext(), contractID, &dto.ProcessPaymentRequest{
			Amount: decimal.NewFromInt(2500),
		})
		s.Require().NoError(err)
		s.Equal(types.PayoutRouteEscrow, result.PayoutRoute)
	}

	// Nothing was credited directly; everything sits in one balance
	s.Zero(s.GetGateway().CreditCount())

	balance, err := s.GetStores().EscrowRepo.GetUnreleasedByContract(s.GetContext(), contractID)
	s.Require().NoError(err)
	s.True(balance.TotalEscrowed.Equal(decimal.NewFromInt(7500)), "got %s", balance.TotalEscrowed)
	s.Equal(3, balance.MonthsAccumulated)

	released, err := s.service.ForceReleaseEscrow(s.GetContext(), contractID, nil)
	s.Require().NoError(err)
	s.True(released.Amount.Equal(decimal.NewFromInt(7500)))
	s.Equal(1, s.GetGateway().CreditCount())

	total, err := s.service.GetTotalEscrowedAmount(s.GetContext(), "user_landlord_1")
	s.Require().NoError(err)
	s.True(total.IsZero())

	payments, err := s.GetStores().PaymentRepo.ListByContract(s.GetContext(), contractID)
	s.Require().NoError(err)
	s.Len(payments, 3)
}
