package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/samber/lo"

	"github.com/leaseflow/leaseflow/internal/api/dto"
	"github.com/leaseflow/leaseflow/internal/domain/contract"
	"github.com/leaseflow/leaseflow/internal/domain/notification"
	"github.com/leaseflow/leaseflow/internal/types"
)

const (
	// finishedNotificationRetentionDays is how long sent/failed notification
	// records are kept before the cleanup sweep deletes them.
	finishedNotificationRetentionDays = 90
	// stalePendingNotificationDays is how long a notification may sit pending
	// before the sweep marks it failed.
	stalePendingNotificationDays = 7
)

// SchedulerService owns the periodic jobs. Every job follows the same
// failure model: log and continue. A job returns a run summary, never an
// error, so a malfunctioning job cannot crash the runner or block siblings.
type SchedulerService interface {
	CheckDuePayments(ctx context.Context) *dto.JobRunSummary
	SendPaymentReminders(ctx context.Context) *dto.JobRunSummary
	ProcessEscrowReleases(ctx context.Context) *dto.JobRunSummary
	UpdateOverduePaymentStatuses(ctx context.Context) *dto.JobRunSummary
	CleanupNotifications(ctx context.Context) *dto.JobRunSummary
	ExecuteWithRetry(ctx context.Context, op func(ctx context.Context) error, label string, maxAttempts int) error
	GetSchedulerHealth(ctx context.Context) *dto.SchedulerHealth
}

type schedulerService struct {
	ServiceParams
	escrowService EscrowService
}

func NewSchedulerService(params ServiceParams, escrowService EscrowService) SchedulerService {
	return &schedulerService{
		ServiceParams: params,
		escrowService: escrowService,
	}
}

// listDueWithRetry is the shared due-contract scan; the query is wrapped in
// the retry helper since it is the first thing every sweep depends on.
func (s *schedulerService) listDueWithRetry(ctx context.Context) ([]*contract.RentContract, error) {
	var due []*contract.RentContract
	err := s.ExecuteWithRetry(ctx, func(ctx context.Context) error {
		var err error
		due, err = s.ContractRepo.ListDue(ctx, time.Now().UTC())
		return err
	}, "list_due_contracts", s.Config.Scheduler.RetryAttempts)
	return due, err
}

// CheckDuePayments scans for contracts whose next payment has fallen due
func (s *schedulerService) CheckDuePayments(ctx context.Context) *dto.JobRunSummary {
	summary := s.newSummary("check_due_payments")
	defer s.finish(summary)

	due, err := s.listDueWithRetry(ctx)
	if err != nil {
		s.Logger.Errorw("due payment check failed", "error", err)
		summary.Failed++
		return summary
	}

	for _, c := range due {
		s.Logger.Infow("payment due",
			"contract_id", c.ID,
			"tenant_id", c.TenantID,
			"next_payment_due", c.NextPaymentDue,
			"monthly_amount", c.MonthlyAmount,
		)
	}
	summary.Processed = len(due)
	return summary
}

// SendPaymentReminders queues and dispatches a reminder for every due or
// overdue contract. Delivery is fire-and-forget; individual failures are
// recorded on the notification row and never abort the sweep.
func (s *schedulerService) SendPaymentReminders(ctx context.Context) *dto.JobRunSummary {
	summary := s.newSummary("send_payment_reminders")
	defer s.finish(summary)

	due, err := s.listDueWithRetry(ctx)
	if err != nil {
		s.Logger.Errorw("payment reminder sweep failed", "error", err)
		summary.Failed++
		return summary
	}

	for _, c := range due {
		if err := s.sendReminder(ctx, c); err != nil {
			s.Logger.Errorw("failed to send payment reminder",
				"contract_id", c.ID,
				"tenant_id", c.TenantID,
				"error", err,
			)
			summary.Failed++
			continue
		}
		summary.Processed++
	}
	return summary
}

func (s *schedulerService) sendReminder(ctx context.Context, c *contract.RentContract) error {
	kind := types.NotificationKindPaymentReminder
	if types.BeginningOfDay(c.NextPaymentDue).Before(types.BeginningOfDay(time.Now().UTC())) {
		kind = types.NotificationKindOverdueNotice
	}

	n := &notification.Notification{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_NOTIFICATION),
		RecipientID:        c.TenantID,
		ContractID:         c.ID,
		Kind:               kind,
		Subject:            fmt.Sprintf("Rent payment of %s due %s", c.MonthlyAmount.String(), c.NextPaymentDue.Format("2006-01-02")),
		Body:               fmt.Sprintf("Your rent payment of %s for contract %s is due on %s.", c.MonthlyAmount.String(), c.ID, c.NextPaymentDue.Format("2006-01-02")),
		NotificationStatus: types.NotificationStatusPending,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
	if err := s.NotificationRepo.Create(ctx, n); err != nil {
		return err
	}

	if !s.EmailSender.IsEnabled() {
		return nil
	}

	tenant, err := s.UserRepo.Get(ctx, c.TenantID)
	if err != nil {
		n.NotificationStatus = types.NotificationStatusFailed
		n.ErrorMessage = lo.ToPtr(err.Error())
		return s.NotificationRepo.Update(ctx, n)
	}

	if _, err := s.EmailSender.Send(ctx, tenant.Email, n.Subject, "", n.Body); err != nil {
		n.NotificationStatus = types.NotificationStatusFailed
		n.ErrorMessage = lo.ToPtr(err.Error())
		return s.NotificationRepo.Update(ctx, n)
	}

	n.NotificationStatus = types.NotificationStatusSent
	n.SentAt = lo.ToPtr(time.Now().UTC())
	return s.NotificationRepo.Update(ctx, n)
}

// ProcessEscrowReleases runs the release sweep and logs every balance
// released. Per-item failures are already isolated inside the sweep.
func (s *schedulerService) ProcessEscrowReleases(ctx context.Context) *dto.JobRunSummary {
	summary := s.newSummary("process_escrow_releases")
	defer s.finish(summary)

	results, err := s.escrowService.CheckEscrowReleases(ctx)
	if err != nil {
		s.Logger.Errorw("escrow release sweep failed", "error", err)
		summary.Failed++
		return summary
	}

	for _, r := range results {
		s.Logger.Infow("escrow balance released by sweep",
			"escrow_id", r.EscrowID,
			"contract_id", r.ContractID,
			"amount", r.Amount,
			"transaction_id", r.TransactionID,
		)
	}
	summary.Processed = len(results)
	return summary
}

// UpdateOverduePaymentStatuses flags overdue contracts. Contracts overdue by
// more than 30 days are logged as critically overdue; no automatic status
// change is taken at that threshold.
func (s *schedulerService) UpdateOverduePaymentStatuses(ctx context.Context) *dto.JobRunSummary {
	summary := s.newSummary("update_overdue_payment_statuses")
	defer s.finish(summary)

	now := time.Now().UTC()
	due, err := s.listDueWithRetry(ctx)
	if err != nil {
		s.Logger.Errorw("overdue status sweep failed", "error", err)
		summary.Failed++
		return summary
	}

	today := types.BeginningOfDay(now)
	for _, c := range due {
		dueDay := types.BeginningOfDay(c.NextPaymentDue)
		if !dueDay.Before(today) {
			continue
		}

		daysOverdue := int(today.Sub(dueDay).Hours() / 24)
		if daysOverdue > types.CriticallyOverdueDays {
			s.Logger.Warnw("contract critically overdue",
				"contract_id", c.ID,
				"tenant_id", c.TenantID,
				"days_overdue", daysOverdue,
			)
		} else {
			s.Logger.Infow("contract overdue",
				"contract_id", c.ID,
				"tenant_id", c.TenantID,
				"days_overdue", daysOverdue,
			)
		}
		summary.Processed++
	}
	return summary
}

// CleanupNotifications prunes old finished notification records and fails
// stale pending ones. Maintenance only, not business-critical.
func (s *schedulerService) CleanupNotifications(ctx context.Context) *dto.JobRunSummary {
	summary := s.newSummary("cleanup_notifications")
	defer s.finish(summary)

	now := time.Now().UTC()

	deleted, err := s.NotificationRepo.DeleteOldFinished(ctx, now.AddDate(0, 0, -finishedNotificationRetentionDays))
	if err != nil {
		s.Logger.Errorw("notification cleanup failed", "error", err)
		summary.Failed++
	} else {
		summary.Processed += deleted
	}

	expired, err := s.NotificationRepo.FailStalePending(ctx, now.AddDate(0, 0, -stalePendingNotificationDays))
	if err != nil {
		s.Logger.Errorw("stale notification expiry failed", "error", err)
		summary.Failed++
	} else {
		summary.Processed += expired
	}

	return summary
}

// ExecuteWithRetry retries op up to maxAttempts times with no delay between
// attempts, surfacing the last error when every attempt fails.
func (s *schedulerService) ExecuteWithRetry(ctx context.Context, op func(ctx context.Context) error, label string, maxAttempts int) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempt := 0
	policy := backoff.WithContext(
		backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(maxAttempts-1)),
		ctx,
	)

	return backoff.RetryNotify(
		func() error {
			attempt++
			return op(ctx)
		},
		policy,
		func(err error, _ time.Duration) {
			s.Logger.Warnw("operation failed, retrying",
				"label", label,
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"error", err,
			)
		},
	)
}

// GetSchedulerHealth aggregates contract and notification counts. When any
// underlying query fails the snapshot reports unhealthy with zeroed metrics
// instead of propagating the error.
func (s *schedulerService) GetSchedulerHealth(ctx context.Context) *dto.SchedulerHealth {
	now := time.Now().UTC()
	unhealthy := &dto.SchedulerHealth{Status: "unhealthy", CheckedAt: now}

	total, err := s.ContractRepo.Count(ctx, types.NewNoLimitContractFilter())
	if err != nil {
		s.Logger.Errorw("scheduler health check failed", "error", err)
		return unhealthy
	}

	activeFilter := types.NewNoLimitContractFilter()
	activeFilter.ContractStatus = lo.ToPtr(types.ContractStatusActive)
	active, err := s.ContractRepo.Count(ctx, activeFilter)
	if err != nil {
		s.Logger.Errorw("scheduler health check failed", "error", err)
		return unhealthy
	}

	due, err := s.ContractRepo.ListDue(ctx, now)
	if err != nil {
		s.Logger.Errorw("scheduler health check failed", "error", err)
		return unhealthy
	}
	today := types.BeginningOfDay(now)
	overdue := lo.CountBy(due, func(c *contract.RentContract) bool {
		return types.BeginningOfDay(c.NextPaymentDue).Before(today)
	})

	pending, err := s.NotificationRepo.CountPending(ctx)
	if err != nil {
		s.Logger.Errorw("scheduler health check failed", "error", err)
		return unhealthy
	}

	return &dto.SchedulerHealth{
		Status:               "healthy",
		TotalContracts:       total,
		ActiveContracts:      active,
		OverdueContracts:     overdue,
		PendingNotifications: pending,
		CheckedAt:            now,
	}
}

func (s *schedulerService) newSummary(job string) *dto.JobRunSummary {
	s.Logger.Infow("scheduler job started", "job", job)
	return &dto.JobRunSummary{
		Job:       job,
		StartedAt: time.Now().UTC(),
	}
}

func (s *schedulerService) finish(summary *dto.JobRunSummary) {
	summary.FinishedAt = time.Now().UTC()
	s.Logger.Infow("scheduler job finished",
		"job", summary.Job,
		"processed", summary.Processed,
		"failed", summary.Failed,
		"duration", summary.FinishedAt.Sub(summary.StartedAt),
	)
}
