package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/atshybrid/kaburlu-billing/internal/api"
	v1 "github.com/atshybrid/kaburlu-billing/internal/api/v1"
	"github.com/atshybrid/kaburlu-billing/internal/cache"
	"github.com/atshybrid/kaburlu-billing/internal/config"
	"github.com/atshybrid/kaburlu-billing/internal/logger"
	"github.com/atshybrid/kaburlu-billing/internal/postgres"
	"github.com/atshybrid/kaburlu-billing/internal/repository"
	"github.com/atshybrid/kaburlu-billing/internal/service"
)

func init() {
	// The whole application works in UTC
	time.Local = time.UTC
}

func main() {
	// Local development convenience; missing .env is fine
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			cache.NewInMemoryCache,

			postgres.NewDB,
			func(db *postgres.DB) postgres.IClient { return db },

			repository.NewWalletRepository,
			repository.NewPricingRepository,
			repository.NewUsageRepository,
			repository.NewInvoiceRepository,
			repository.NewTenantRepository,

			service.NewServiceParams,
			service.NewTenantService,
			service.NewWalletService,
			service.NewPricingService,
			service.NewBillingService,
			service.NewInvoiceService,
			service.NewAccessLockService,

			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	tenantService service.TenantService,
	walletService service.WalletService,
	pricingService service.PricingService,
	billingService service.BillingService,
	invoiceService service.InvoiceService,
	lockService service.AccessLockService,
) api.Handlers {
	return api.Handlers{
		Health:  v1.NewHealthHandler(),
		Tenant:  v1.NewTenantHandler(tenantService, lockService, logger),
		Wallet:  v1.NewWalletHandler(walletService, billingService, logger),
		Pricing: v1.NewPricingHandler(pricingService, logger),
		Billing: v1.NewBillingHandler(billingService, logger),
		Invoice: v1.NewInvoiceHandler(invoiceService, logger),
		Portal:  v1.NewPortalHandler(walletService, billingService, invoiceService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			db.Close()
			return nil
		},
	})
}
