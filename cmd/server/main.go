package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/leaseflow/leaseflow/internal/api"
	"github.com/leaseflow/leaseflow/internal/api/cron"
	v1 "github.com/leaseflow/leaseflow/internal/api/v1"
	"github.com/leaseflow/leaseflow/internal/config"
	"github.com/leaseflow/leaseflow/internal/domain/contract"
	"github.com/leaseflow/leaseflow/internal/domain/escrow"
	"github.com/leaseflow/leaseflow/internal/domain/notification"
	"github.com/leaseflow/leaseflow/internal/domain/payment"
	"github.com/leaseflow/leaseflow/internal/domain/user"
	"github.com/leaseflow/leaseflow/internal/email"
	"github.com/leaseflow/leaseflow/internal/logger"
	"github.com/leaseflow/leaseflow/internal/payout"
	"github.com/leaseflow/leaseflow/internal/postgres"
	"github.com/leaseflow/leaseflow/internal/repository"
	"github.com/leaseflow/leaseflow/internal/scheduler"
	"github.com/leaseflow/leaseflow/internal/service"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Postgres
			postgres.NewDB,
			func(db *postgres.DB) postgres.IClient { return db },

			// Repositories
			repository.NewContractRepository,
			repository.NewEscrowRepository,
			repository.NewPaymentRepository,
			repository.NewNotificationRepository,
			repository.NewUserRepository,

			// Collaborators
			payout.NewLogGateway,
			provideEmailSender,

			// Services
			provideServiceParams,
			service.NewEscrowService,
			service.NewPayoutService,
			service.NewContractService,
			provideSchedulerService,

			// API and runner
			provideHandlers,
			provideRouter,
			scheduler.NewRunner,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideEmailSender(cfg *config.Configuration) email.Sender {
	return email.NewClient(cfg)
}

func provideServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	db postgres.IClient,
	contractRepo contract.Repository,
	escrowRepo escrow.Repository,
	paymentRepo payment.Repository,
	notificationRepo notification.Repository,
	userRepo user.Repository,
	gateway payout.Gateway,
	sender email.Sender,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:           log,
		Config:           cfg,
		DB:               db,
		ContractRepo:     contractRepo,
		EscrowRepo:       escrowRepo,
		PaymentRepo:      paymentRepo,
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		PayoutGateway:    gateway,
		EmailSender:      sender,
	}
}

func provideSchedulerService(params service.ServiceParams, escrowService service.EscrowService) service.SchedulerService {
	return service.NewSchedulerService(params, escrowService)
}

func provideHandlers(
	log *logger.Logger,
	contractService service.ContractService,
	escrowService service.EscrowService,
	schedulerService service.SchedulerService,
) api.Handlers {
	return api.Handlers{
		Contract:  v1.NewContractHandler(contractService, log),
		Escrow:    v1.NewEscrowHandler(escrowService, log),
		Scheduler: cron.NewSchedulerHandler(log, schedulerService),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, log)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	runner *scheduler.Runner,
	db *postgres.DB,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return runner.Start()
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			if err := runner.Stop(ctx); err != nil {
				return err
			}
			db.Close()
			return nil
		},
	})
}
