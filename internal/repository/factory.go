package repository

import (
	"github.com/atshybrid/kaburlu-billing/internal/domain/invoice"
	"github.com/atshybrid/kaburlu-billing/internal/domain/pricing"
	"github.com/atshybrid/kaburlu-billing/internal/domain/tenant"
	"github.com/atshybrid/kaburlu-billing/internal/domain/usage"
	"github.com/atshybrid/kaburlu-billing/internal/domain/wallet"
	"github.com/atshybrid/kaburlu-billing/internal/logger"
	"github.com/atshybrid/kaburlu-billing/internal/postgres"
	pgRepo "github.com/atshybrid/kaburlu-billing/internal/repository/postgres"
)

func NewWalletRepository(db *postgres.DB, logger *logger.Logger) wallet.Repository {
	return pgRepo.NewWalletRepository(db, logger)
}

func NewPricingRepository(db *postgres.DB, logger *logger.Logger) pricing.Repository {
	return pgRepo.NewPricingRepository(db, logger)
}

func NewUsageRepository(db *postgres.DB, logger *logger.Logger) usage.Repository {
	return pgRepo.NewUsageRepository(db, logger)
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return pgRepo.NewInvoiceRepository(db, logger)
}

func NewTenantRepository(db *postgres.DB, logger *logger.Logger) tenant.Repository {
	return pgRepo.NewTenantRepository(db, logger)
}
