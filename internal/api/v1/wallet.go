package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atshybrid/kaburlu-billing/internal/api/dto"
	"github.com/atshybrid/kaburlu-billing/internal/domain/wallet"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/logger"
	"github.com/atshybrid/kaburlu-billing/internal/service"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

type WalletHandler struct {
	walletService  service.WalletService
	billingService service.BillingService
	log            *logger.Logger
}

func NewWalletHandler(walletService service.WalletService, billingService service.BillingService, log *logger.Logger) *WalletHandler {
	return &WalletHandler{
		walletService:  walletService,
		billingService: billingService,
		log:            log,
	}
}

// GetWallet returns the tenant's balance plus the derived health figures
func (h *WalletHandler) GetWallet(c *gin.Context) {
	resp, err := h.walletService.GetBalance(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WalletHandler) TopUp(c *gin.Context) {
	var req dto.TopUpWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.walletService.TopUp(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WalletHandler) TopUpBulk(c *gin.Context) {
	var req dto.BulkTopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.walletService.TopUpBulk(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CalculateBulk quotes a bulk prepayment without mutating anything
func (h *WalletHandler) CalculateBulk(c *gin.Context) {
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

	resp, err := h.billingService.CalculateBulkDiscount(c.Request.Context(), c.Param("id"), req.Months)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WalletHandler) Adjust(c *gin.Context) {
	var req dto.AdjustWalletRequest
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

	w, err := h.walletService.Adjust(c.Request.Context(), &wallet.WalletOperation{
		TenantID:    c.Param("id"),
		AmountMinor: req.AmountMinor,
		Description: req.Description,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WalletHandler) ListTransactions(c *gin.Context) {
	var filter types.TransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.walletService.ListTransactions(c.Request.Context(), c.Param("id"), &filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
