package api

import (
	"github.com/gin-gonic/gin"

	"github.com/leaseflow/leaseflow/internal/api/cron"
	v1 "github.com/leaseflow/leaseflow/internal/api/v1"
	"github.com/leaseflow/leaseflow/internal/config"
	"github.com/leaseflow/leaseflow/internal/logger"
	"github.com/leaseflow/leaseflow/internal/rest/middleware"
	"github.com/leaseflow/leaseflow/internal/types"
)

type Handlers struct {
	Contract  *v1.ContractHandler
	Escrow    *v1.EscrowHandler
	Scheduler *cron.SchedulerHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", v1.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	cronGroup := router.Group("/cron")
	registerCronRoutes(cronGroup, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	contracts := router.Group("/contracts")
	{
		contracts.POST("", handlers.Contract.CreateContract)
		contracts.GET("", handlers.Contract.ListContracts)
		contracts.GET("/active", handlers.Contract.ListActiveContracts)
		contracts.GET("/:id", handlers.Contract.GetContract)
		contracts.PUT("/:id/status", handlers.Contract.UpdateContractStatus)
		contracts.POST("/:id/payments", handlers.Contract.ProcessPayment)
		contracts.POST("/:id/escrow/release", handlers.Escrow.ForceRelease)
	}

	landlords := router.Group("/landlords")
	{
		landlords.GET("/:id/escrow", handlers.Escrow.GetLandlordBalances)
		landlords.GET("/:id/escrow/total", handlers.Escrow.GetTotalEscrowed)
	}
}

func registerCronRoutes(router *gin.RouterGroup, handlers Handlers) {
	payments := router.Group("/payments")
	{
		payments.POST("/due", handlers.Scheduler.TriggerPaymentDueCheck)
		payments.POST("/reminders", handlers.Scheduler.TriggerPaymentReminders)
		payments.POST("/overdue", handlers.Scheduler.TriggerOverdueUpdates)
	}

	escrow := router.Group("/escrow")
	{
		escrow.POST("/releases", handlers.Scheduler.TriggerEscrowReleases)
	}

	notifications := router.Group("/notifications")
	{
		notifications.POST("/cleanup", handlers.Scheduler.TriggerNotificationCleanup)
	}

	router.GET("/health", handlers.Scheduler.GetSchedulerHealth)
}
