package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atshybrid/kaburlu-billing/internal/api/dto"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/logger"
	"github.com/atshybrid/kaburlu-billing/internal/service"
)

type BillingHandler struct {
	service service.BillingService
	log     *logger.Logger
}

func NewBillingHandler(service service.BillingService, log *logger.Logger) *BillingHandler {
	return &BillingHandler{service: service, log: log}
}

// GetCurrentUsage returns the current period's usage and charge breakdown
func (h *BillingHandler) GetCurrentUsage(c *gin.Context) {
	resp, err := h.service.GetCurrentUsage(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BillingHandler) RecordUsage(c *gin.Context) {
	var req dto.RecordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	u, err := h.service.RecordUsage(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *BillingHandler) RecordOtherCharge(c *gin.Context) {
	var req dto.RecordOtherChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	u, err := h.service.RecordOtherCharge(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}
