package service

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/leaseflow/leaseflow/internal/domain/contract"
	"github.com/leaseflow/leaseflow/internal/domain/escrow"
	"github.com/leaseflow/leaseflow/internal/domain/notification"
	"github.com/leaseflow/leaseflow/internal/domain/user"
	"github.com/leaseflow/leaseflow/internal/testutil"
	"github.com/leaseflow/leaseflow/internal/types"
)

type SchedulerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service       SchedulerService
	escrowService EscrowService
}

func TestSchedulerService(t *testing.T) {
	suite.Run(t, new(SchedulerServiceSuite))
}

func (s *SchedulerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := buildParams(&s.BaseServiceTestSuite)
	s.escrowService = NewEscrowService(params)
	s.service = NewSchedulerService(params, s.escrowService)
}

func (s *SchedulerServiceSuite) seedDueContract(tenantID string, due time.Time) *contract.RentContract {
	c := &contract.RentContract{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RENT_CONTRACT),
		TenantID:        tenantID,
		LandlordID:      "user_landlord_1",
		PropertyID:      "prop_1",
		UnitID:          "unit_1",
		MonthlyAmount:   decimal.NewFromInt(2500),
		ExpiryDate:      time.Now().UTC().AddDate(1, 0, 0),
		PayoutType:      types.PayoutTypeMonthly,
		NextPaymentDue:  due,
		TransitionStart: due,
		ContractStatus:  types.ContractStatusActive,
		BaseModel:       types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(s.GetStores().ContractRepo.Create(s.GetContext(), c))
	return c
}

func (s *SchedulerServiceSuite) seedNotification(status types.NotificationStatus, createdAt time.Time) *notification.Notification {
	n := &notification.Notification{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_NOTIFICATION),
		RecipientID:        "user_tenant_1",
		ContractID:         "rc_1",
		Kind:               types.NotificationKindPaymentReminder,
		Subject:            "Rent payment due",
		Body:               "Your rent payment is due.",
		NotificationStatus: status,
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	}
	n.CreatedAt = createdAt
	s.Require().NoError(s.GetStores().NotificationRepo.Create(s.GetContext(), n))
	return n
}

func (s *SchedulerServiceSuite) TestCheckDuePayments() {
	now := time.Now().UTC()
	s.seedDueContract("user_tenant_1", now.AddDate(0, 0, -5))
	s.seedDueContract("user_tenant_2", now)
	s.seedDueContract("user_tenant_3", now.AddDate(0, 1, 0))

	summary := s.service.CheckDuePayments(s.GetContext())
	s.Equal(2, summary.Processed)
	s.Zero(summary.Failed)
	s.False(summary.FinishedAt.Before(summary.StartedAt))
}

func (s *SchedulerServiceSuite) TestCheckDuePayments_FaultIsolation() {
	s.GetStores().ContractRepo.ListDueErr = errors.New("connection refused")

	summary := s.service.CheckDuePayments(s.GetContext())
	s.Zero(summary.Processed)
	s.Equal(1, summary.Failed)

	// A failing sweep never takes down its siblings
	s.GetStores().ContractRepo.ListDueErr = nil
	s.Zero(s.service.ProcessEscrowReleases(s.GetContext()).Failed)
}

func (s *SchedulerServiceSuite) TestSendPaymentReminders_QueuedOnly() {
	now := time.Now().UTC()
	overdue := s.seedDueContract("user_tenant_1", now.AddDate(0, 0, -3))
	dueToday := s.seedDueContract("user_tenant_2", types.BeginningOfDay(now))

	summary := s.service.SendPaymentReminders(s.GetContext())
	s.Equal(2, summary.Processed)
	s.Zero(summary.Failed)

	// Email delivery is disabled, so both stay pending in the outbox
	all := s.GetStores().NotificationRepo.All()
	s.Require().Len(all, 2)
	byContract := lo.KeyBy(all, func(n *notification.Notification) string { return n.ContractID })
	s.Equal(types.NotificationKindOverdueNotice, byContract[overdue.ID].Kind)
	s.Equal(types.NotificationKindPaymentReminder, byContract[dueToday.ID].Kind)
	for _, n := range all {
		s.Equal(types.NotificationStatusPending, n.NotificationStatus)
	}
	s.Empty(s.GetEmailSender().Sent)
}

func (s *SchedulerServiceSuite) TestSendPaymentReminders_Delivery() {
	s.GetEmailSender().Enabled = true
	now := time.Now().UTC()

	known := s.seedDueContract("user_tenant_1", now.AddDate(0, 0, -1))
	unknown := s.seedDueContract("user_tenant_ghost", now.AddDate(0, 0, -1))
	s.GetStores().UserRepo.Add(&user.User{
		ID:    known.TenantID,
		Email: "tenant1@example.com",
		Name:  "Tenant One",
	})

	summary := s.service.SendPaymentReminders(s.GetContext())
	s.Equal(2, summary.Processed)
	s.Equal([]string{"tenant1@example.com"}, s.GetEmailSender().Sent)

	// The missing recipient is recorded on the notification, not surfaced
	byContract := lo.KeyBy(s.GetStores().NotificationRepo.All(), func(n *notification.Notification) string { return n.ContractID })
	s.Equal(types.NotificationStatusSent, byContract[known.ID].NotificationStatus)
	s.Equal(types.NotificationStatusFailed, byContract[unknown.ID].NotificationStatus)
	s.NotNil(byContract[unknown.ID].ErrorMessage)
}

func (s *SchedulerServiceSuite) TestProcessEscrowReleases() {
	now := time.Now().UTC()
	c := s.seedDueContract("user_tenant_1", now)

	_, err := s.GetStores().EscrowRepo.Accumulate(s.GetContext(), &escrow.EscrowBalance{
		ID:                  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ESCROW_BALANCE),
		ContractID:          c.ID,
		LandlordID:          c.LandlordID,
		TotalEscrowed:       decimal.NewFromInt(9000),
		MonthsAccumulated:   3,
		ExpectedReleaseDate: now.AddDate(0, 0, -1),
		BaseModel:           types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)

	summary := s.service.ProcessEscrowReleases(s.GetContext())
	s.Equal(1, summary.Processed)
	s.Zero(summary.Failed)
	s.Equal(1, s.GetGateway().CreditCount())
	s.True(s.GetGateway().Credits[0].Amount.Equal(decimal.NewFromInt(9000)))
}

func (s *SchedulerServiceSuite) TestUpdateOverduePaymentStatuses() {
	now := time.Now().UTC()
	critical := s.seedDueContract("user_tenant_1", now.AddDate(0, 0, -40))
	s.seedDueContract("user_tenant_2", now.AddDate(0, 0, -5))
	s.seedDueContract("user_tenant_3", types.BeginningOfDay(now))

	summary := s.service.UpdateOverduePaymentStatuses(s.GetContext())
	// Due today is not overdue; only the two past-due contracts count
	s.Equal(2, summary.Processed)
	s.Zero(summary.Failed)

	// Critically overdue is a log signal only, never a status change
	got, err := s.GetStores().ContractRepo.Get(s.GetContext(), critical.ID)
	s.Require().NoError(err)
	s.Equal(types.ContractStatusActive, got.ContractStatus)
}

func (s *SchedulerServiceSuite) TestCleanupNotifications() {
	now := time.Now().UTC()
	old := s.seedNotification(types.NotificationStatusSent, now.AddDate(0, 0, -120))
	recent := s.seedNotification(types.NotificationStatusSent, now.AddDate(0, 0, -5))
	stale := s.seedNotification(types.NotificationStatusPending, now.AddDate(0, 0, -10))
	fresh := s.seedNotification(types.NotificationStatusPending, now)

	summary := s.service.CleanupNotifications(s.GetContext())
	// One deleted plus one expired
	s.Equal(2, summary.Processed)
	s.Zero(summary.Failed)

	byID := lo.KeyBy(s.GetStores().NotificationRepo.All(), func(n *notification.Notification) string { return n.ID })
	s.NotContains(byID, old.ID)
	s.Equal(types.NotificationStatusSent, byID[recent.ID].NotificationStatus)
	s.Equal(types.NotificationStatusFailed, byID[stale.ID].NotificationStatus)
	s.Equal(types.NotificationStatusPending, byID[fresh.ID].NotificationStatus)
}

func (s *SchedulerServiceSuite) TestExecuteWithRetry() {
	s.Run("recovers from transient failures", func() {
		calls := 0
		err := s.service.ExecuteWithRetry(s.GetContext(), func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, "transient_op", 3)
		s.NoError(err)
		s.Equal(3, calls)
	})

	s.Run("surfaces the last error when exhausted", func() {
		calls := 0
		err := s.service.ExecuteWithRetry(s.GetContext(), func(ctx context.Context) error {
			calls++
			return errors.Newf("attempt %d failed", calls)
		}, "doomed_op", 2)
		s.Require().Error(err)
		s.Equal(2, calls)
		s.Contains(err.Error(), "attempt 2 failed")
	})
}

func (s *SchedulerServiceSuite) TestGetSchedulerHealth() {
	now := time.Now().UTC()
	s.seedDueContract("user_tenant_1", now.AddDate(0, 0, -2))
	s.seedDueContract("user_tenant_2", now.AddDate(0, 1, 0))
	s.seedNotification(types.NotificationStatusPending, now)

	health := s.service.GetSchedulerHealth(s.GetContext())
	s.Equal("healthy", health.Status)
	s.Equal(2, health.TotalContracts)
	s.Equal(2, health.ActiveContracts)
	s.Equal(1, health.OverdueContracts)
	s.Equal(1, health.PendingNotifications)
	s.False(health.CheckedAt.IsZero())
}

func (s *SchedulerServiceSuite) TestGetSchedulerHealth_Unhealthy() {
	s.Run("contract count failure", func() {
		s.GetStores().ContractRepo.CountErr = errors.New("connection refused")
		defer func() { s.GetStores().ContractRepo.CountErr = nil }()

		health := s.service.GetSchedulerHealth(s.GetContext())
		s.Equal("unhealthy", health.Status)
		s.Zero(health.TotalContracts)
		s.False(health.CheckedAt.IsZero())
	})

	s.Run("pending notification count failure", func() {
		s.GetStores().NotificationRepo.CountPendingErr = errors.New("connection refused")
		defer func() { s.GetStores().NotificationRepo.CountPendingErr = nil }()

		health := s.service.GetSchedulerHealth(s.GetContext())
		s.Equal("unhealthy", health.Status)
		s.Zero(health.PendingNotifications)
	})
}
