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

type PricingHandler struct {
	service service.PricingService
	log     *logger.Logger
}

func NewPricingHandler(service service.PricingService, log *logger.Logger) *PricingHandler {
	return &PricingHandler{service: service, log: log}
}

// ListPricing returns the tenant's full pricing history, newest first
func (h *PricingHandler) ListPricing(c *gin.Context) {
	rows, err := h.service.ListPricing(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}

func (h *PricingHandler) SetPricing(c *gin.Context) {
	var req dto.SetPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	p, err := h.service.SetPricing(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PricingHandler) UpdatePricing(c *gin.Context) {
	var req dto.SetPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	p, err := h.service.UpdatePricing(c.Request.Context(), c.Param("id"), c.Param("pricingId"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PricingHandler) DeletePricing(c *gin.Context) {
	if err := h.service.DeletePricing(c.Request.Context(), c.Param("id"), c.Param("pricingId")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pricing deactivated"})
}

// ListServices returns the per-tenant service matrix with active flags
func (h *PricingHandler) ListServices(c *gin.Context) {
	services, err := h.service.ListServices(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": services})
}

func (h *PricingHandler) ToggleService(c *gin.Context) {
	var req dto.ToggleServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	svc := types.ServiceKind(c.Param("service"))
	if err := h.service.ToggleService(c.Request.Context(), c.Param("id"), svc, &req); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": svc, "active": req.Active})
}
