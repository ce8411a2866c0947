package api

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/atshybrid/kaburlu-billing/internal/api/v1"
	"github.com/atshybrid/kaburlu-billing/internal/config"
	"github.com/atshybrid/kaburlu-billing/internal/logger"
	"github.com/atshybrid/kaburlu-billing/internal/rest/middleware"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Tenant  *v1.TenantHandler
	Wallet  *v1.WalletHandler
	Pricing *v1.PricingHandler
	Billing *v1.BillingHandler
	Invoice *v1.InvoiceHandler
	Portal  *v1.PortalHandler
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
		middleware.ContextMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerAdminRoutes(v1Group, handlers)
	registerPortalRoutes(v1Group, handlers)

	return router
}

// registerAdminRoutes wires the operator surface. Tenant identity comes from
// the path; lock/unlock/adjust assume elevated privilege enforced upstream.
func registerAdminRoutes(router *gin.RouterGroup, handlers Handlers) {
	router.POST("/tenants", handlers.Tenant.CreateTenant)

	tenants := router.Group("/tenants/:id")
	{
		tenants.GET("", handlers.Tenant.GetTenant)
		tenants.POST("/lock", handlers.Tenant.LockTenant)
		tenants.POST("/unlock", handlers.Tenant.UnlockTenant)

		wallet := tenants.Group("/wallet")
		{
			wallet.GET("", handlers.Wallet.GetWallet)
			wallet.POST("/topup", handlers.Wallet.TopUp)
			wallet.POST("/topup-bulk", handlers.Wallet.TopUpBulk)
			wallet.POST("/calculate-bulk", handlers.Wallet.CalculateBulk)
			wallet.POST("/adjust", handlers.Wallet.Adjust)
			wallet.GET("/transactions", handlers.Wallet.ListTransactions)
		}

		usage := tenants.Group("/usage")
		{
			usage.GET("/current", handlers.Billing.GetCurrentUsage)
			usage.POST("", handlers.Billing.RecordUsage)
			usage.POST("/other-charges", handlers.Billing.RecordOtherCharge)
		}

		pricing := tenants.Group("/pricing")
		{
			pricing.GET("", handlers.Pricing.ListPricing)
			pricing.POST("", handlers.Pricing.SetPricing)
			pricing.PUT("/:pricingId", handlers.Pricing.UpdatePricing)
			pricing.DELETE("/:pricingId", handlers.Pricing.DeletePricing)
		}

		tenants.GET("/services", handlers.Pricing.ListServices)
		tenants.POST("/services/:service/toggle", handlers.Pricing.ToggleService)

		invoices := tenants.Group("/invoices")
		{
			invoices.POST("/generate", handlers.Invoice.GenerateInvoice)
			invoices.GET("", handlers.Invoice.ListInvoices)
			invoices.GET("/:invoiceId", handlers.Invoice.GetInvoice)
		}
	}
}

// registerPortalRoutes wires the tenant self-service surface. The tenant is
// resolved from the request context, never from the path.
func registerPortalRoutes(router *gin.RouterGroup, handlers Handlers) {
	portal := router.Group("/portal")
	{
		portal.GET("/wallet", handlers.Portal.GetWallet)
		portal.GET("/usage", handlers.Portal.GetUsage)
		portal.GET("/invoices", handlers.Portal.ListInvoices)
		portal.GET("/invoices/:invoiceId", handlers.Portal.GetInvoice)
		portal.POST("/topup-request", handlers.Portal.TopUpRequest)
	}
}
