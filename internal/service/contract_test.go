package service

import (
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/leaseflow/leaseflow/internal/api/dto"
	"github.com/leaseflow/leaseflow/internal/domain/contract"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/testutil"
	"github.com/leaseflow/leaseflow/internal/types"
)

// buildParams assembles ServiceParams from the suite's in-memory stores
func buildParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		DB:               s.GetDB(),
		ContractRepo:     stores.ContractRepo,
		EscrowRepo:       stores.EscrowRepo,
		PaymentRepo:      stores.PaymentRepo,
		NotificationRepo: stores.NotificationRepo,
		UserRepo:         stores.UserRepo,
		PayoutGateway:    s.GetGateway(),
		EmailSender:      s.GetEmailSender(),
	}
}

// allHints joins every hint attached to err so assertions can check the
// caller-facing message.
func allHints(err error) string {
	return strings.Join(errors.GetAllHints(err), "; ")
}

type ContractServiceSuite struct {
	testutil.BaseServiceTestSuite
	service       ContractService
	escrowService EscrowService
}

func TestContractService(t *testing.T) {
	suite.Run(t, new(ContractServiceSuite))
}

func (s *ContractServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := buildParams(&s.BaseServiceTestSuite)
	s.escrowService = NewEscrowService(params)
	s.service = NewContractService(params, NewPayoutService(params, s.escrowService))
}

func (s *ContractServiceSuite) newCreateRequest() *dto.CreateRentContractRequest {
	return &dto.CreateRentContractRequest{
		TenantID:      "user_tenant_1",
		LandlordID:    "user_landlord_1",
		PropertyID:    "prop_1",
		UnitID:        "unit_1",
		MonthlyAmount: decimal.NewFromInt(2500),
		ExpiryDate:    time.Now().UTC().AddDate(1, 0, 0),
		PayoutType:    types.PayoutTypeMonthly,
	}
}

// seedContract inserts a contract directly into the store, bypassing the
// creation preconditions, so tests can shape the schedule freely.
func (s *ContractServiceSuite) seedContract(mutate func(*contract.RentContract)) *contract.RentContract {
	now := time.Now().UTC()
	c := &contract.RentContract{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RENT_CONTRACT),
		TenantID:        "user_tenant_1",
		LandlordID:      "user_landlord_1",
		PropertyID:      "prop_1",
		UnitID:          "unit_1",
		MonthlyAmount:   decimal.NewFromInt(2500),
		ExpiryDate:      now.AddDate(1, 0, 0),
		PayoutType:      types.PayoutTypeMonthly,
		NextPaymentDue:  types.BeginningOfDay(now),
		TransitionStart: types.BeginningOfDay(now),
		ContractStatus:  types.ContractStatusActive,
		BaseModel:       types.GetDefaultBaseModel(s.GetContext()),
	}
	if mutate != nil {
		mutate(c)
	}
	s.Require().NoError(s.GetStores().ContractRepo.Create(s.GetContext(), c))
	return c
}

func (s *ContractServiceSuite) TestCreateRentContract() {
	resp, err := s.service.CreateRentContract(s.GetContext(), s.newCreateRequest())
	s.Require().NoError(err)

	c := resp.Contract.RentContract
	s.Equal(types.ContractStatusActive, c.ContractStatus)
	s.Equal(types.BeginningOfDay(time.Now().UTC()), c.TransitionStart)
	s.Equal(c.TransitionStart, c.NextPaymentDue)
	s.Nil(resp.Arrears)
}

func (s *ContractServiceSuite) TestCreateRentContract_Validation() {
	s.Run("expiry in the past", func() {
		req := s.newCreateRequest()
		req.ExpiryDate = time.Now().UTC().AddDate(0, 0, -1)
		_, err := s.service.CreateRentContract(s.GetContext(), req)
		s.True(ierr.IsValidation(err))
	})

	s.Run("non-positive amount", func() {
		req := s.newCreateRequest()
		req.MonthlyAmount = decimal.Zero
		_, err := s.service.CreateRentContract(s.GetContext(), req)
		s.True(ierr.IsValidation(err))
	})

	s.Run("existing tenant without original expiry", func() {
		req := s.newCreateRequest()
		req.IsExistingTenant = true
		_, err := s.service.CreateRentContract(s.GetContext(), req)
		s.True(ierr.IsValidation(err))
	})
}

func (s *ContractServiceSuite) TestCreateRentContract_SingleActivePerTenant() {
	_, err := s.service.CreateRentContract(s.GetContext(), s.newCreateRequest())
	s.Require().NoError(err)

	// A second contract must be rejected regardless of landlord/property
	req := s.newCreateRequest()
	req.LandlordID = "user_landlord_2"
	req.PropertyID = "prop_2"
	_, err = s.service.CreateRentContract(s.GetContext(), req)
	s.Require().Error(err)
	s.True(ierr.IsAlreadyExists(err))
	s.Contains(allHints(err), "already has an active rent contract")
}

func (s *ContractServiceSuite) TestCreateRentContract_ExistingTenantArrears() {
	now := time.Now().UTC()

	req := s.newCreateRequest()
	req.IsExistingTenant = true
	// Original lease expires in three months, so the transition started
	// three months ago and three whole months are owed.
	req.OriginalExpiryDate = lo.ToPtr(types.AddClampedDate(now, 0, 3, 0))
	req.MonthlyAmount = decimal.NewFromInt(1000)

	resp, err := s.service.CreateRentContract(s.GetContext(), req)
	s.Require().NoError(err)
	s.Require().NotNil(resp.Arrears)
	s.Equal(3, resp.Arrears.MonthsOverdue)
	s.True(resp.Arrears.TotalArrears.Equal(decimal.NewFromInt(3000)))
	s.Equal(types.FirstOfNextMonth(now), resp.Contract.NextPaymentDue)
}

func (s *ContractServiceSuite) TestProcessPayment_AmountMismatch() {
	c := s.seedContract(nil)

	_, err := s.service.ProcessMonthlyPayment(s.GetContext(), c.ID, &dto.ProcessPaymentRequest{
		Amount: decimal.NewFromInt(2000),
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.Contains(allHints(err), "2000")
	s.Contains(allHints(err), "2500")
}

func (s *ContractServiceSuite) TestProcessPayment_ToleranceAccepted() {
	c := s.seedContract(nil)

	result, err := s.service.ProcessMonthlyPayment(s.GetContext(), c.ID, &dto.ProcessPaymentRequest{
		Amount: decimal.NewFromFloat(2500.01),
	})
	s.Require().NoError(err)
	s.True(result.Success)
	s.Equal(types.PayoutRouteImmediate, result.PayoutRoute)
	s.Equal(1, s.GetGateway().CreditCount())
}

func (s *ContractServiceSuite) TestProcessPayment_EarlyWindowBoundary() {
	s.Run("exactly 30 days early succeeds", func() {
		c := s.seedContract(func(c *contract.RentContract) {
			c.NextPaymentDue = types.AddClampedDate(types.BeginningOfDay(time.Now().UTC()), 0, 0, types.EarlyPaymentWindowDays)
		})

		_, err := s.service.ProcessMonthlyPayment(s.GetContext(), c.ID, &dto.ProcessPaymentRequest{
			Amount: decimal.NewFromInt(2500),
		})
		s.NoError(err)
	})

	s.Run("31 days early fails", func() {
		c := s.seedContract(func(c *contract.RentContract) {
			c.TenantID = "user_tenant_2"
			c.NextPaymentDue = types.AddClampedDate(types.BeginningOfDay(time.Now().UTC()), 0, 0, types.EarlyPaymentWindowDays+1)
		})

		_, err := s.service.ProcessMonthlyPayment(s.GetContext(), c.ID, &dto.ProcessPaymentRequest{
			Amount: decimal.NewFromInt(2500),
		})
		s.Require().Error(err)
		s.True(ierr.IsValidation(err))
		s.Contains(allHints(err), "due date")
	})
}

func (s *ContractServiceSuite) TestProcessPayment_LatePaymentAccepted() {
	c := s.seedContract(func(c *contract.RentContract) {
		// Well past due but within the same transition month, so no arrears
		c.NextPaymentDue = types.AddClampedDate(types.BeginningOfDay(time.Now().UTC()), 0, 0, -20)
		c.TransitionStart = types.AddClampedDate(types.BeginningOfDay(time.Now().UTC()), 0, 0, -20)
	})

	result, err := s.service.ProcessMonthlyPayment(s.GetContext(), c.ID, &dto.ProcessPaymentRequest{
		Amount: decimal.NewFromInt(2500),
	})
	s.Require().NoError(err)
	s.True(result.Success)
}

func (s *ContractServiceSuite) TestProcessPayment_ArrearsPath() {
	now := time.Now().UTC()
	c := s.seedContract(func(c *contract.RentContract) {
		c.MonthlyAmount = decimal.NewFromInt(1000)
		c.TransitionStart = types.AddClampedDate(types.BeginningOfDay(now), 0, -3, 0)
	})

	s.Run("underpayment names the shortfall", func() {
		_, err := s.service.ProcessMonthlyPayment(s.GetContext(), c.ID, &dto.ProcessPaymentRequest{
			Amount: decimal.NewFromInt(2000),
		})
		s.Require().Error(err)
		s.True(ierr.IsValidation(err))
		s.Contains(allHints(err), "3000")
	})

	s.Run("full settlement clears every owed month", func() {
		result, err := s.service.ProcessMonthlyPayment(s.GetContext(), c.ID, &dto.ProcessPaymentRequest{
			Amount: decimal.NewFromInt(3000),
		})
		s.Require().NoError(err)
		s.True(result.Success)
		s.Equal(types.PaymentTypeArrears, result.PaymentType)
		s.Equal(3, result.MonthsCovered)
		s.Contains(result.Message, "3 month(s)")
		s.Equal(types.FirstOfNextMonth(now), result.NextPaymentDue)
	})
}

func (s *ContractServiceSuite) TestProcessPayment_OverpaymentRoutedWhole() {
	now := time.Now().UTC()
	c := s.seedContract(func(c *contract.RentContract) {
		c.MonthlyAmount = decimal.NewFromInt(1000)
		c.TransitionStart = types.AddClampedDate(types.BeginningOfDay(now), 0, -2, 0)
	})

	// 2500 against 2000 of arrears: the whole amount is routed, the excess
	// is not reconciled against the next regular payment.
	result, err := s.service.ProcessMonthlyPayment(s.GetContext(), c.ID, &dto.ProcessPaymentRequest{
		Amount: decimal.NewFromInt(2500),
	})
	s.Require().NoError(err)
	s.True(result.Amount.Equal(decimal.NewFromInt(2500)))
	s.Require().Equal(1, s.GetGateway().CreditCount())
	s.True(s.GetGateway().Credits[0].Amount.Equal(decimal.NewFromInt(2500)))
}

func (s *ContractServiceSuite) TestProcessPayment_GatewayFailureMarkedAsPaymentFailure() {
	c := s.seedContract(nil)
	s.GetGateway().FailWith = errors.New("wallet service unavailable")

	_, err := s.service.ProcessMonthlyPayment(s.GetContext(), c.ID, &dto.ProcessPaymentRequest{
		Amount: decimal.NewFromInt(2500),
	})
	s.Require().Error(err)
	s.True(ierr.IsPaymentFailed(err))
}

func (s *ContractServiceSuite) TestProcessPayment_InactiveContractRejected() {
	c := s.seedContract(func(c *contract.RentContract) {
		c.ContractStatus = types.ContractStatusTerminated
	})

	_, err := s.service.ProcessMonthlyPayment(s.GetContext(), c.ID, &dto.ProcessPaymentRequest{
		Amount: decimal.NewFromInt(2500),
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ContractServiceSuite) TestProcessPayment_MissingContract() {
	_, err := s.service.ProcessMonthlyPayment(s.GetContext(), "rc_missing", &dto.ProcessPaymentRequest{
		Amount: decimal.NewFromInt(2500),
	})
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ContractServiceSuite) TestUpdateNextPaymentDue_Advances() {
	c := s.seedContract(nil)
	before := c.NextPaymentDue

	resp, err := s.service.UpdateNextPaymentDue(s.GetContext(), c.ID)
	s.Require().NoError(err)
	s.Equal(types.AddClampedDate(before, 0, 1, 0), resp.NextPaymentDue)
	s.Equal(types.ContractStatusActive, resp.ContractStatus)
}

func (s *ContractServiceSuite) TestUpdateNextPaymentDue_ExpiryTransition() {
	now := types.BeginningOfDay(time.Now().UTC())
	c := s.seedContract(func(c *contract.RentContract) {
		c.ExpiryDate = types.AddClampedDate(now, 0, 0, 10)
		c.NextPaymentDue = now
	})

	resp, err := s.service.UpdateNextPaymentDue(s.GetContext(), c.ID)
	s.Require().NoError(err)
	s.Equal(types.ContractStatusExpired, resp.ContractStatus)
	// Due date is left untouched when the contract expires instead
	s.Equal(now, resp.NextPaymentDue)
}

func (s *ContractServiceSuite) TestUpdateContractStatus() {
	s.Run("active to terminated", func() {
		c := s.seedContract(nil)
		resp, err := s.service.UpdateContractStatus(s.GetContext(), c.ID, types.ContractStatusTerminated)
		s.Require().NoError(err)
		s.Equal(types.ContractStatusTerminated, resp.ContractStatus)
	})

	s.Run("terminal states are immutable", func() {
		c := s.seedContract(func(c *contract.RentContract) {
			c.TenantID = "user_tenant_2"
			c.ContractStatus = types.ContractStatusExpired
		})
		_, err := s.service.UpdateContractStatus(s.GetContext(), c.ID, types.ContractStatusActive)
		s.Require().Error(err)
		s.True(ierr.IsInvalidOperation(err))
	})

	s.Run("same status write is a no-op", func() {
		c := s.seedContract(func(c *contract.RentContract) {
			c.TenantID = "user_tenant_3"
		})
		resp, err := s.service.UpdateContractStatus(s.GetContext(), c.ID, types.ContractStatusActive)
		s.Require().NoError(err)
		s.Equal(types.ContractStatusActive, resp.ContractStatus)
	})
}

func (s *ContractServiceSuite) TestListContracts_Filters() {
	s.seedContract(nil)
	s.seedContract(func(c *contract.RentContract) {
		c.TenantID = "user_tenant_2"
		c.LandlordID = "user_landlord_2"
	})
	s.seedContract(func(c *contract.RentContract) {
		c.TenantID = "user_tenant_3"
		c.ContractStatus = types.ContractStatusExpired
	})

	all, err := s.service.ListContracts(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Equal(3, all.Total)

	filter := types.NewContractFilter()
	filter.LandlordID = lo.ToPtr("user_landlord_2")
	byLandlord, err := s.service.ListContracts(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Equal(1, byLandlord.Total)

	active, err := s.service.GetActiveContracts(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Equal(2, active.Total)
}

func (s *ContractServiceSuite) TestGetContract_NotFound() {
	_, err := s.service.GetContract(s.GetContext(), "rc_missing")
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}
