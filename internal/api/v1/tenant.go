package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atshybrid/kaburlu-billing/internal/api/dto"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/logger"
	"github.com/atshybrid/kaburlu-billing/internal/service"
)

type TenantHandler struct {
	tenantService service.TenantService
	lockService   service.AccessLockService
	log           *logger.Logger
}

func NewTenantHandler(tenantService service.TenantService, lockService service.AccessLockService, log *logger.Logger) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
		lockService:   lockService,
		log:           log,
	}
}

func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	t, err := h.tenantService.Create(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TenantHandler) GetTenant(c *gin.Context) {
	t, err := h.tenantService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TenantHandler) LockTenant(c *gin.Context) {
	var req dto.LockTenantRequest
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

	if err := h.lockService.Lock(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locked": true})
}

func (h *TenantHandler) UnlockTenant(c *gin.Context) {
	if err := h.lockService.Unlock(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locked": false})
}
