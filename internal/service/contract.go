package service

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/leaseflow/leaseflow/internal/api/dto"
	"github.com/leaseflow/leaseflow/internal/domain/contract"
	"github.com/leaseflow/leaseflow/internal/domain/payment"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/types"
)

// ContractService manages the rent-contract lifecycle: creation with arrears
// detection, queries, due-date advancement, status transitions, and the
// monthly payment state machine.
type ContractService interface {
	CreateRentContract(ctx context.Context, req *dto.CreateRentContractRequest) (*dto.CreateRentContractResponse, error)
	GetContract(ctx context.Context, id string) (*dto.RentContractResponse, error)
	GetActiveContracts(ctx context.Context, filter *types.ContractFilter) (*dto.ListContractsResponse, error)
	ListContracts(ctx context.Context, filter *types.ContractFilter) (*dto.ListContractsResponse, error)
	UpdateNextPaymentDue(ctx context.Context, contractID string) (*dto.RentContractResponse, error)
	UpdateContractStatus(ctx context.Context, contractID string, status types.ContractStatus) (*dto.RentContractResponse, error)
	ProcessMonthlyPayment(ctx context.Context, contractID string, req *dto.ProcessPaymentRequest) (*dto.PaymentResult, error)
}

type contractService struct {
	ServiceParams
	payoutService PayoutService
}

func NewContractService(params ServiceParams, payoutService PayoutService) ContractService {
	return &contractService{
		ServiceParams: params,
		payoutService: payoutService,
	}
}

// CreateRentContract validates the request, enforces the single active
// contract per tenant rule, computes the transition start and any opening
// arrears, and persists the contract as ACTIVE. The partial unique index on
// active contracts backs up the application-level check under concurrency.
func (s *contractService) CreateRentContract(ctx context.Context, req *dto.CreateRentContractRequest) (*dto.CreateRentContractResponse, error) {
	now := time.Now().UTC()

	if err := req.Validate(now); err != nil {
		return nil, err
	}

	if _, err := s.ContractRepo.GetActiveByTenant(ctx, req.TenantID); err == nil {
		return nil, ierr.NewError("tenant already has an active rent contract").
			WithHintf("Tenant %s already has an active rent contract", req.TenantID).
			Mark(ierr.ErrAlreadyExists)
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	c := req.ToContract(ctx)

	transitionStart, err := contract.CalculateTransitionStart(req.IsExistingTenant, req.OriginalExpiryDate, now)
	if err != nil {
		return nil, err
	}
	c.TransitionStart = transitionStart

	arrears := contract.CalculateArrears(transitionStart, c.MonthlyAmount, now)
	c.NextPaymentDue = arrears.NextPaymentDue

	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.ContractRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("created rent contract",
		"contract_id", c.ID,
		"tenant_id", c.TenantID,
		"landlord_id", c.LandlordID,
		"payout_type", c.PayoutType,
		"months_overdue", arrears.MonthsOverdue,
	)

	resp := &dto.CreateRentContractResponse{
		Contract: &dto.RentContractResponse{RentContract: c},
	}
	if req.IsExistingTenant && arrears.HasArrears() {
		resp.Arrears = dto.NewArrearsSummary(arrears)
	}
	return resp, nil
}

func (s *contractService) GetContract(ctx context.Context, id string) (*dto.RentContractResponse, error) {
	c, err := s.ContractRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.RentContractResponse{RentContract: c}, nil
}

// GetActiveContracts lists contracts with the ACTIVE filter forced on
func (s *contractService) GetActiveContracts(ctx context.Context, filter *types.ContractFilter) (*dto.ListContractsResponse, error) {
	if filter == nil {
		filter = types.NewContractFilter()
	}
	filter.ContractStatus = lo.ToPtr(types.ContractStatusActive)
	return s.ListContracts(ctx, filter)
}

func (s *contractService) ListContracts(ctx context.Context, filter *types.ContractFilter) (*dto.ListContractsResponse, error) {
	if filter == nil {
		filter = types.NewContractFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	contracts, err := s.ContractRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.ContractRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListContractsResponse{
		Items: lo.Map(contracts, func(c *contract.RentContract, _ int) *dto.RentContractResponse {
			return &dto.RentContractResponse{RentContract: c}
		}),
		Total:  total,
		Limit:  filter.GetLimit(),
		Offset: filter.GetOffset(),
	}, nil
}

// UpdateNextPaymentDue advances the due date by one calendar month. When the
// advanced date would pass the expiry date the contract expires instead and
// the due date is left untouched.
func (s *contractService) UpdateNextPaymentDue(ctx context.Context, contractID string) (*dto.RentContractResponse, error) {
	c, err := s.ContractRepo.Get(ctx, contractID)
	if err != nil {
		return nil, err
	}

	if err := s.advanceOrExpire(ctx, c); err != nil {
		return nil, err
	}
	return &dto.RentContractResponse{RentContract: c}, nil
}

func (s *contractService) advanceOrExpire(ctx context.Context, c *contract.RentContract) error {
	advanced := types.AddClampedDate(c.NextPaymentDue, 0, 1, 0)

	if advanced.After(c.ExpiryDate) {
		c.ContractStatus = types.ContractStatusExpired
		s.Logger.Infow("contract reached expiry, marking expired",
			"contract_id", c.ID,
			"expiry_date", c.ExpiryDate,
			"next_payment_due", c.NextPaymentDue,
		)
		return s.ContractRepo.Update(ctx, c)
	}

	c.NextPaymentDue = advanced
	return s.ContractRepo.Update(ctx, c)
}

// UpdateContractStatus applies a guarded status transition. ACTIVE is the
// only re-entrant state; writing the current status again is a no-op.
func (s *contractService) UpdateContractStatus(ctx context.Context, contractID string, status types.ContractStatus) (*dto.RentContractResponse, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	c, err := s.ContractRepo.Get(ctx, contractID)
	if err != nil {
		return nil, err
	}

	if c.ContractStatus == status {
		return &dto.RentContractResponse{RentContract: c}, nil
	}
	if !c.ContractStatus.CanTransitionTo(status) {
		return nil, ierr.NewError("invalid status transition").
			WithHintf("Contract %s cannot move from %s to %s", contractID, c.ContractStatus, status).
			Mark(ierr.ErrInvalidOperation)
	}

	c.ContractStatus = status
	if err := s.ContractRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("updated contract status",
		"contract_id", c.ID,
		"contract_status", status,
	)
	return &dto.RentContractResponse{RentContract: c}, nil
}

// ProcessMonthlyPayment runs the per-payment state machine. A contract in
// arrears must be settled in full first; otherwise the amount must match the
// monthly rent within tolerance and fall inside the early-payment window.
func (s *contractService) ProcessMonthlyPayment(ctx context.Context, contractID string, req *dto.ProcessPaymentRequest) (*dto.PaymentResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.ContractRepo.Get(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive() {
		return nil, ierr.NewError("contract is not active").
			WithHintf("Contract %s is %s and cannot accept payments", contractID, c.ContractStatus).
			Mark(ierr.ErrValidation)
	}

	now := time.Now().UTC()
	arrears := contract.CalculateArrears(c.TransitionStart, c.MonthlyAmount, now)

	if arrears.HasArrears() {
		return s.processArrearsPayment(ctx, c, req, arrears, now)
	}
	return s.processRegularPayment(ctx, c, req, now)
}

// processArrearsPayment settles all owed months at once. The full paid
// amount is routed, overpayment included; it is not reconciled against the
// next regular payment.
func (s *contractService) processArrearsPayment(ctx context.Context, c *contract.RentContract, req *dto.ProcessPaymentRequest, arrears contract.ArrearsSnapshot, now time.Time) (*dto.PaymentResult, error) {
	if req.Amount.LessThan(arrears.TotalArrears) {
		shortfall := arrears.TotalArrears.Sub(req.Amount)
		return nil, ierr.NewError("payment does not cover arrears").
			WithHintf("Payment of %s does not cover arrears of %s for %d month(s); short by %s",
				req.Amount.String(), arrears.TotalArrears.String(), arrears.MonthsOverdue, shortfall.String()).
			WithReportableDetails(map[string]any{
				"amount":         req.Amount,
				"total_arrears":  arrears.TotalArrears,
				"months_overdue": arrears.MonthsOverdue,
			}).
			Mark(ierr.ErrValidation)
	}

	routing, err := s.payoutService.RoutePayment(ctx, c, req.Amount)
	if err != nil {
		return nil, s.asPaymentFailure(err)
	}

	p := s.newPayment(ctx, c, req, routing, types.PaymentTypeArrears, arrears.MonthsOverdue, now)
	if err := s.PaymentRepo.Create(ctx, p); err != nil {
		return nil, s.asPaymentFailure(err)
	}

	c.NextPaymentDue = arrears.NextPaymentDue
	if err := s.ContractRepo.Update(ctx, c); err != nil {
		return nil, s.asPaymentFailure(err)
	}

	s.Logger.Infow("settled arrears payment",
		"contract_id", c.ID,
		"payment_id", p.ID,
		"months_cleared", arrears.MonthsOverdue,
		"amount", req.Amount,
	)

	return &dto.PaymentResult{
		Success:        true,
		Message:        fmt.Sprintf("Cleared %d month(s) of arrears", arrears.MonthsOverdue),
		PaymentID:      p.ID,
		ContractID:     c.ID,
		Amount:         req.Amount,
		PaymentType:    types.PaymentTypeArrears,
		PayoutRoute:    routing.PayoutRoute,
		MonthsCovered:  arrears.MonthsOverdue,
		TransactionID:  routing.TransactionID,
		NextPaymentDue: c.NextPaymentDue,
	}, nil
}

func (s *contractService) processRegularPayment(ctx context.Context, c *contract.RentContract, req *dto.ProcessPaymentRequest, now time.Time) (*dto.PaymentResult, error) {
	diff := req.Amount.Sub(c.MonthlyAmount).Abs()
	if diff.GreaterThan(types.AmountTolerance) {
		return nil, ierr.NewError("payment amount mismatch").
			WithHintf("Payment amount %s does not match monthly rent %s",
				req.Amount.String(), c.MonthlyAmount.String()).
			WithReportableDetails(map[string]any{
				"amount":         req.Amount,
				"monthly_amount": c.MonthlyAmount,
			}).
			Mark(ierr.ErrValidation)
	}

	// Accept up to 30 days early; lateness has no upper bound.
	today := types.BeginningOfDay(now)
	earliest := types.AddClampedDate(types.BeginningOfDay(c.NextPaymentDue), 0, 0, -types.EarlyPaymentWindowDays)
	if today.Before(earliest) {
		return nil, ierr.NewError("payment too early").
			WithHintf("Payment is only accepted within %d days of the due date %s",
				types.EarlyPaymentWindowDays, c.NextPaymentDue.Format("2006-01-02")).
			Mark(ierr.ErrValidation)
	}

	routing, err := s.payoutService.RoutePayment(ctx, c, req.Amount)
	if err != nil {
		return nil, s.asPaymentFailure(err)
	}

	p := s.newPayment(ctx, c, req, routing, types.PaymentTypeMonthly, 1, now)
	if err := s.PaymentRepo.Create(ctx, p); err != nil {
		return nil, s.asPaymentFailure(err)
	}

	if err := s.advanceOrExpire(ctx, c); err != nil {
		return nil, s.asPaymentFailure(err)
	}

	s.Logger.Infow("processed monthly payment",
		"contract_id", c.ID,
		"payment_id", p.ID,
		"amount", req.Amount,
		"payout_route", routing.PayoutRoute,
	)

	return &dto.PaymentResult{
		Success:        true,
		Message:        "Monthly payment processed",
		PaymentID:      p.ID,
		ContractID:     c.ID,
		Amount:         req.Amount,
		PaymentType:    types.PaymentTypeMonthly,
		PayoutRoute:    routing.PayoutRoute,
		MonthsCovered:  1,
		TransactionID:  routing.TransactionID,
		NextPaymentDue: c.NextPaymentDue,
	}, nil
}

func (s *contractService) newPayment(ctx context.Context, c *contract.RentContract, req *dto.ProcessPaymentRequest, routing *RoutingResult, paymentType types.PaymentType, monthsCovered int, now time.Time) *payment.Payment {
	return &payment.Payment{
		ID:                   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RENT_PAYMENT),
		ContractID:           c.ID,
		TenantID:             c.TenantID,
		LandlordID:           c.LandlordID,
		Amount:               req.Amount,
		PaymentType:          paymentType,
		PayoutRoute:          routing.PayoutRoute,
		MonthsCovered:        monthsCovered,
		PaymentMethod:        req.PaymentMethod,
		Reference:            req.Reference,
		GatewayTransactionID: routing.TransactionID,
		PaidAt:               now,
		BaseModel:            types.GetDefaultBaseModel(ctx),
	}
}

// asPaymentFailure re-marks routing and recording failures as a generic
// payment failure carrying the original message.
func (s *contractService) asPaymentFailure(err error) error {
	return ierr.WithError(err).
		WithHint("Payment processing failed").
		Mark(ierr.ErrPaymentFailed)
}
