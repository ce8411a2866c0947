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

// PortalHandler serves the tenant self-service surface. The tenant identity
// comes from the request context, never from the path, so a tenant can only
// ever see its own data.
type PortalHandler struct {
	walletService  service.WalletService
	billingService service.BillingService
	invoiceService service.InvoiceService
	log            *logger.Logger
}

func NewPortalHandler(
	walletService service.WalletService,
	billingService service.BillingService,
	invoiceService service.InvoiceService,
	log *logger.Logger,
) *PortalHandler {
	return &PortalHandler{
		walletService:  walletService,
		billingService: billingService,
		invoiceService: invoiceService,
		log:            log,
	}
}

func portalTenantID(c *gin.Context) (string, error) {
	tenantID := types.GetTenantID(c.Request.Context())
	if tenantID == "" {
		return "", ierr.NewError("missing tenant identity").
			WithHint("Tenant identity was not resolved for this request").
			Mark(ierr.ErrPermissionDenied)
	}
	return tenantID, nil
}

func (h *PortalHandler) GetWallet(c *gin.Context) {
	tenantID, err := portalTenantID(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.walletService.GetBalance(c.Request.Context(), tenantID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PortalHandler) GetUsage(c *gin.Context) {
	tenantID, err := portalTenantID(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.billingService.GetCurrentUsage(c.Request.Context(), tenantID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PortalHandler) ListInvoices(c *gin.Context) {
	tenantID, err := portalTenantID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var filter types.InvoiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), tenantID, &filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PortalHandler) GetInvoice(c *gin.Context) {
	tenantID, err := portalTenantID(c)
	if err != nil {
		c.Error(err)
		return
	}

	inv, err := h.invoiceService.GetInvoice(c.Request.Context(), tenantID, c.Param("invoiceId"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// TopUpRequest quotes the amount due for a prepayment without capturing any
// payment; the gateway integration lives outside this service.
func (h *PortalHandler) TopUpRequest(c *gin.Context) {
	tenantID, err := portalTenantID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req dto.CalculateBulkRequest
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

	quote, err := h.billingService.CalculateBulkDiscount(c.Request.Context(), tenantID, req.Months)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
