package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/leaseflow/leaseflow/internal/api/dto"
	"github.com/leaseflow/leaseflow/internal/config"
	"github.com/leaseflow/leaseflow/internal/logger"
	"github.com/leaseflow/leaseflow/internal/service"
	"github.com/leaseflow/leaseflow/internal/types"
)

// Runner drives the periodic jobs on an in-process cron timer. It is a
// single-process scheduler: in a multi-instance deployment every instance
// runs its own timer, so jobs must stay idempotent.
type Runner struct {
	cfg              *config.Configuration
	logger           *logger.Logger
	schedulerService service.SchedulerService
	cron             *cron.Cron
}

func NewRunner(cfg *config.Configuration, logger *logger.Logger, schedulerService service.SchedulerService) *Runner {
	cronLogger := &cronLogAdapter{logger: logger}
	return &Runner{
		cfg:              cfg,
		logger:           logger,
		schedulerService: schedulerService,
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		)),
	}
}

// Start registers every job with its configured spec and starts the timer
func (r *Runner) Start() error {
	if !r.cfg.Scheduler.Enabled {
		r.logger.Infow("scheduler runner disabled, jobs available via cron endpoints only")
		return nil
	}

	jobs := []struct {
		spec string
		run  func(ctx context.Context) *dto.JobRunSummary
	}{
		{r.cfg.Scheduler.DuePaymentsSpec, r.schedulerService.CheckDuePayments},
		{r.cfg.Scheduler.RemindersSpec, r.schedulerService.SendPaymentReminders},
		{r.cfg.Scheduler.EscrowReleasesSpec, r.schedulerService.ProcessEscrowReleases},
		{r.cfg.Scheduler.OverdueSpec, r.schedulerService.UpdateOverduePaymentStatuses},
		{r.cfg.Scheduler.CleanupSpec, r.schedulerService.CleanupNotifications},
	}

	for _, job := range jobs {
		run := job.run
		if _, err := r.cron.AddFunc(job.spec, func() {
			ctx := types.SetUserID(context.Background(), types.DefaultUserID)
			run(ctx)
		}); err != nil {
			return err
		}
	}

	r.cron.Start()
	r.logger.Infow("scheduler runner started", "jobs", len(jobs))
	return nil
}

// Stop halts the timer and waits for running jobs to finish
func (r *Runner) Stop(ctx context.Context) error {
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Infow("scheduler runner stopped")
	return nil
}

// cronLogAdapter adapts the application logger to the cron.Logger interface
type cronLogAdapter struct {
	logger *logger.Logger
}

func (l *cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l *cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
