package service

import (
	"github.com/atshybrid/kaburlu-billing/internal/cache"
	"github.com/atshybrid/kaburlu-billing/internal/config"
	"github.com/atshybrid/kaburlu-billing/internal/domain/invoice"
	"github.com/atshybrid/kaburlu-billing/internal/domain/pricing"
	"github.com/atshybrid/kaburlu-billing/internal/domain/tenant"
	"github.com/atshybrid/kaburlu-billing/internal/domain/usage"
	"github.com/atshybrid/kaburlu-billing/internal/domain/wallet"
	"github.com/atshybrid/kaburlu-billing/internal/logger"
	"github.com/atshybrid/kaburlu-billing/internal/postgres"
)

// NewServiceParams assembles the common dependency bundle for services
func NewServiceParams(
	logger *logger.Logger,
	cfg *config.Configuration,
	db postgres.IClient,
	cacheClient cache.Cache,
	walletRepo wallet.Repository,
	pricingRepo pricing.Repository,
	usageRepo usage.Repository,
	invoiceRepo invoice.Repository,
	tenantRepo tenant.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:      logger,
		Config:      cfg,
		DB:          db,
		Cache:       cacheClient,
		WalletRepo:  walletRepo,
		PricingRepo: pricingRepo,
		UsageRepo:   usageRepo,
		InvoiceRepo: invoiceRepo,
		TenantRepo:  tenantRepo,
	}
}

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache

	// Repositories
	WalletRepo  wallet.Repository
	PricingRepo pricing.Repository
	UsageRepo   usage.Repository
	InvoiceRepo invoice.Repository
	TenantRepo  tenant.Repository
}
