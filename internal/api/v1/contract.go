package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leaseflow/leaseflow/internal/api/dto"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/logger"
	"github.com/leaseflow/leaseflow/internal/service"
	"github.com/leaseflow/leaseflow/internal/types"
)

type ContractHandler struct {
	service service.ContractService
	log     *logger.Logger
}

func NewContractHandler(service service.ContractService, log *logger.Logger) *ContractHandler {
	return &ContractHandler{service: service, log: log}
}

func (h *ContractHandler) CreateContract(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.CreateRentContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind contract request", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateRentContract(ctx, &req)
	if err != nil {
		h.log.Errorw("failed to create contract", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ContractHandler) GetContract(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := h.service.GetContract(ctx, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ContractHandler) ListContracts(c *gin.Context) {
	ctx := c.Request.Context()

	filter := types.NewContractFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		h.log.Errorw("failed to bind contract filter", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListContracts(ctx, filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ContractHandler) ListActiveContracts(c *gin.Context) {
	ctx := c.Request.Context()

	filter := types.NewContractFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		h.log.Errorw("failed to bind contract filter", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetActiveContracts(ctx, filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ContractHandler) UpdateContractStatus(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.UpdateContractStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind status request", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.UpdateContractStatus(ctx, c.Param("id"), req.ContractStatus)
	if err != nil {
		h.log.Errorw("failed to update contract status", "contract_id", c.Param("id"), "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ContractHandler) ProcessPayment(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind payment request", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	result, err := h.service.ProcessMonthlyPayment(ctx, c.Param("id"), &req)
	if err != nil {
		h.log.Errorw("failed to process payment", "contract_id", c.Param("id"), "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
