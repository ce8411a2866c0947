package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atshybrid/kaburlu-billing/internal/api/dto"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/logger"
	"github.com/atshybrid/kaburlu-billing/internal/service"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

type InvoiceHandler struct {
	service service.InvoiceService
	log     *logger.Logger
}

func NewInvoiceHandler(service service.InvoiceService, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{service: service, log: log}
}

// GenerateInvoice runs invoice generation for one tenant and period
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	var req dto.GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	period := types.BillingPeriod{Start: req.PeriodStart, End: req.PeriodEnd}
	resp, err := h.service.GenerateMonthlyInvoice(c.Request.Context(), c.Param("id"), period)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	inv, err := h.service.GetInvoice(c.Request.Context(), c.Param("id"), c.Param("invoiceId"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	var filter types.InvoiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListInvoices(c.Request.Context(), c.Param("id"), &filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
