package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leaseflow/leaseflow/internal/api/dto"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/logger"
	"github.com/leaseflow/leaseflow/internal/service"
)

type EscrowHandler struct {
	service service.EscrowService
	log     *logger.Logger
}

func NewEscrowHandler(service service.EscrowService, log *logger.Logger) *EscrowHandler {
	return &EscrowHandler{service: service, log: log}
}

func (h *EscrowHandler) GetLandlordBalances(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := h.service.GetLandlordEscrowBalances(ctx, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *EscrowHandler) GetTotalEscrowed(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.service.GetTotalEscrowedAmount(ctx, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"landlord_id":    c.Param("id"),
		"total_escrowed": total,
	})
}

func (h *EscrowHandler) ForceRelease(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.ForceReleaseRequest
	// The reason body is optional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.log.Errorw("failed to bind release request", "error", err)
			c.Error(ierr.WithError(err).
				WithHint("Invalid request format").
				Mark(ierr.ErrValidation))
			return
		}
	}

	result, err := h.service.ForceReleaseEscrow(ctx, c.Param("id"), req.Reason)
	if err != nil {
		h.log.Errorw("failed to force-release escrow", "contract_id", c.Param("id"), "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.ReleaseResultResponse{ReleaseResult: result})
}
