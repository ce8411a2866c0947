package service

import (
	"context"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/domain/pricing"
	"github.com/atshybrid/kaburlu-billing/internal/domain/tenant"
	"github.com/atshybrid/kaburlu-billing/internal/testutil"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

func newTestServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		Cache:       s.GetCache(),
		WalletRepo:  stores.WalletRepo,
		PricingRepo: stores.PricingRepo,
		UsageRepo:   stores.UsageRepo,
		InvoiceRepo: stores.InvoiceRepo,
		TenantRepo:  stores.TenantRepo,
	}
}

func seedTenant(ctx context.Context, repo tenant.Repository, id, name string) *tenant.Tenant {
	now := time.Now().UTC()
	t := &tenant.Tenant{
		ID:        id,
		Name:      name,
		Status:    types.StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_ = repo.Create(ctx, t)
	return t
}

func seedPricing(ctx context.Context, repo pricing.Repository, tenantID string, svc types.ServiceKind, perUnitMinor, feeMinor, minUnits int64, discount6, discount12 int) *pricing.Pricing {
	p := &pricing.Pricing{
		ID:                     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRICING),
		Service:                svc,
		PricePerUnitMinor:      perUnitMinor,
		MonthlyFeeMinor:        feeMinor,
		MinUnitsPerPeriod:      minUnits,
		Discount6MonthPercent:  discount6,
		Discount12MonthPercent: discount12,
		IsActive:               true,
		EffectiveFrom:          time.Now().UTC().AddDate(0, -1, 0),
		BaseModel:              types.GetDefaultBaseModel(ctx),
	}
	p.TenantID = tenantID
	_ = repo.Create(ctx, p)
	return p
}
