package cron

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leaseflow/leaseflow/internal/logger"
	"github.com/leaseflow/leaseflow/internal/service"
	"github.com/leaseflow/leaseflow/internal/types"
)

// SchedulerHandler exposes every scheduler job as a manually triggerable
// endpoint, the operational override for the timer-driven runner.
type SchedulerHandler struct {
	logger           *logger.Logger
	schedulerService service.SchedulerService
}

func NewSchedulerHandler(logger *logger.Logger, schedulerService service.SchedulerService) *SchedulerHandler {
	return &SchedulerHandler{
		logger:           logger,
		schedulerService: schedulerService,
	}
}

// jobContext runs jobs under the system user so audit columns are attributed
func (h *SchedulerHandler) jobContext(c *gin.Context) *gin.Context {
	c.Request = c.Request.WithContext(types.SetUserID(c.Request.Context(), types.DefaultUserID))
	return c
}

func (h *SchedulerHandler) TriggerPaymentDueCheck(c *gin.Context) {
	c = h.jobContext(c)
	summary := h.schedulerService.CheckDuePayments(c.Request.Context())
	c.JSON(http.StatusOK, summary)
}

func (h *SchedulerHandler) TriggerPaymentReminders(c *gin.Context) {
	c = h.jobContext(c)
	summary := h.schedulerService.SendPaymentReminders(c.Request.Context())
	c.JSON(http.StatusOK, summary)
}

func (h *SchedulerHandler) TriggerEscrowReleases(c *gin.Context) {
	c = h.jobContext(c)
	summary := h.schedulerService.ProcessEscrowReleases(c.Request.Context())
	c.JSON(http.StatusOK, summary)
}

func (h *SchedulerHandler) TriggerOverdueUpdates(c *gin.Context) {
	c = h.jobContext(c)
	summary := h.schedulerService.UpdateOverduePaymentStatuses(c.Request.Context())
	c.JSON(http.StatusOK, summary)
}

func (h *SchedulerHandler) TriggerNotificationCleanup(c *gin.Context) {
	c = h.jobContext(c)
	summary := h.schedulerService.CleanupNotifications(c.Request.Context())
	c.JSON(http.StatusOK, summary)
}

func (h *SchedulerHandler) GetSchedulerHealth(c *gin.Context) {
	health := h.schedulerService.GetSchedulerHealth(c.Request.Context())

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}
