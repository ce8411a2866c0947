package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atshybrid/kaburlu-billing/internal/api/dto"
	"github.com/atshybrid/kaburlu-billing/internal/domain/pricing"
	"github.com/atshybrid/kaburlu-billing/internal/domain/usage"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// BillingService computes monthly charges from the usage accumulator and the
// pricing catalog, and quotes bulk prepayment discounts. Charge computation is
// idempotent: recomputation with unchanged inputs yields the same numbers.
type BillingService interface {
	CalculateMonthlyCharge(ctx context.Context, tenantID string, period types.BillingPeriod) (*dto.MonthlyChargeResponse, error)
	CalculateBulkDiscount(ctx context.Context, tenantID string, months int) (*dto.BulkDiscountResponse, error)

	RecordUsage(ctx context.Context, tenantID string, req *dto.RecordUsageRequest) (*usage.MonthlyUsage, error)
	RecordOtherCharge(ctx context.Context, tenantID string, req *dto.RecordOtherChargeRequest) (*usage.MonthlyUsage, error)
	GetCurrentUsage(ctx context.Context, tenantID string) (*dto.MonthlyChargeResponse, error)
}

type billingService struct {
	ServiceParams
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{ServiceParams: params}
}

func (s *billingService) CalculateMonthlyCharge(ctx context.Context, tenantID string, period types.BillingPeriod) (*dto.MonthlyChargeResponse, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	var resp *dto.MonthlyChargeResponse
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		u, err := s.loadOrCreateUsage(ctx, tenantID, period, true)
		if err != nil {
			return err
		}

		resp, err = s.computeCharges(ctx, u)
		if err != nil {
			return err
		}
		return s.UsageRepo.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// computeCharges prices the usage row's counters and writes the charge fields
// back onto it. The caller persists the row.
func (s *billingService) computeCharges(ctx context.Context, u *usage.MonthlyUsage) (*dto.MonthlyChargeResponse, error) {
	pricingService := NewPricingService(s.ServiceParams)
	asOf := u.PeriodEnd
	lines := make([]dto.ChargeLine, 0, 5)

	// Metered: pages billed at per-unit price with a contracted minimum floor
	epaperPricing, err := s.activePricingOrNil(ctx, pricingService, u.TenantID, types.ServiceKindEpaper, asOf)
	if err != nil {
		return nil, err
	}
	u.EpaperChargeMinor = 0
	if epaperPricing != nil {
		billedPages := u.EpaperPages
		if billedPages < epaperPricing.MinUnitsPerPeriod {
			billedPages = epaperPricing.MinUnitsPerPeriod
		}
		u.EpaperChargeMinor = billedPages * epaperPricing.PricePerUnitMinor
		if u.EpaperChargeMinor > 0 {
			lines = append(lines, dto.ChargeLine{
				Component:       string(types.ServiceKindEpaper),
				Description:     "e-paper pages",
				Units:           u.EpaperPages,
				BilledUnits:     billedPages,
				UnitAmountMinor: epaperPricing.PricePerUnitMinor,
				AmountMinor:     u.EpaperChargeMinor,
			})
		}
	} else if u.EpaperPages > 0 {
		return nil, ierr.NewError("usage recorded with no active pricing").
			WithHint("Configure pricing for the service before billing its usage").
			WithReportableDetails(map[string]any{
				"tenant_id": u.TenantID,
				"service":   types.ServiceKindEpaper,
				"units":     u.EpaperPages,
			}).
			Mark(ierr.ErrPricingNotConfigured)
	}

	// Flat-fee services charge the monthly fee while an active pricing row
	// marks them enabled for the tenant
	flatCharge := func(svc types.ServiceKind, description string) (int64, error) {
		p, err := s.activePricingOrNil(ctx, pricingService, u.TenantID, svc, asOf)
		if err != nil {
			return 0, err
		}
		if p == nil || p.MonthlyFeeMinor == 0 {
			return 0, nil
		}
		lines = append(lines, dto.ChargeLine{
			Component:   string(svc),
			Description: description,
			AmountMinor: p.MonthlyFeeMinor,
		})
		return p.MonthlyFeeMinor, nil
	}

	if u.WebsiteChargeMinor, err = flatCharge(types.ServiceKindNewsWebsite, "news website"); err != nil {
		return nil, err
	}
	if u.PrintChargeMinor, err = flatCharge(types.ServiceKindPrintService, "print service"); err != nil {
		return nil, err
	}

	// Custom services may carry a flat fee, per-unit pricing, or both
	customPricing, err := s.activePricingOrNil(ctx, pricingService, u.TenantID, types.ServiceKindCustomService, asOf)
	if err != nil {
		return nil, err
	}
	u.CustomChargeMinor = 0
	if customPricing != nil {
		u.CustomChargeMinor = customPricing.MonthlyFeeMinor + u.CustomUnits*customPricing.PricePerUnitMinor
		if u.CustomChargeMinor > 0 {
			lines = append(lines, dto.ChargeLine{
				Component:       string(types.ServiceKindCustomService),
				Description:     "custom services",
				Units:           u.CustomUnits,
				BilledUnits:     u.CustomUnits,
				UnitAmountMinor: customPricing.PricePerUnitMinor,
				AmountMinor:     u.CustomChargeMinor,
			})
		}
	} else if u.CustomUnits > 0 {
		return nil, ierr.NewError("usage recorded with no active pricing").
			WithHint("Configure pricing for the service before billing its usage").
			WithReportableDetails(map[string]any{
				"tenant_id": u.TenantID,
				"service":   types.ServiceKindCustomService,
				"units":     u.CustomUnits,
			}).
			Mark(ierr.ErrPricingNotConfigured)
	}

	if u.OtherChargesMinor > 0 {
		lines = append(lines, dto.ChargeLine{
			Component:   "OTHER",
			Description: "other charges",
			AmountMinor: u.OtherChargesMinor,
		})
	}

	u.TotalChargeMinor = u.EpaperChargeMinor + u.WebsiteChargeMinor +
		u.PrintChargeMinor + u.CustomChargeMinor + u.OtherChargesMinor

	advanceMonths := s.Config.Billing.MinimumAdvanceMonths
	return &dto.MonthlyChargeResponse{
		TenantID:             u.TenantID,
		PeriodStart:          u.PeriodStart,
		PeriodEnd:            u.PeriodEnd,
		Lines:                lines,
		TotalChargeMinor:     u.TotalChargeMinor,
		RequiredBalanceMinor: u.TotalChargeMinor * int64(advanceMonths),
		MinimumAdvanceMonths: advanceMonths,
	}, nil
}

func (s *billingService) activePricingOrNil(ctx context.Context, pricingService PricingService, tenantID string, svc types.ServiceKind, asOf time.Time) (*pricing.Pricing, error) {
	p, err := pricingService.GetActivePricing(ctx, tenantID, svc, asOf)
	if err != nil {
		if ierr.Is(err, ierr.ErrPricingNotConfigured) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (s *billingService) CalculateBulkDiscount(ctx context.Context, tenantID string, months int) (*dto.BulkDiscountResponse, error) {
	if months <= 0 {
		return nil, ierr.NewError("months must be positive").
			WithHint("Months must be a positive number").
			WithReportableDetails(map[string]any{"months": months}).
			Mark(ierr.ErrValidation)
	}

	now := time.Now().UTC()
	active, err := s.PricingRepo.ListActive(ctx, tenantID, now)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, ierr.NewError("no active pricing configured").
			WithHint("Configure pricing before quoting a bulk prepayment").
			WithReportableDetails(map[string]any{"tenant_id": tenantID}).
			Mark(ierr.ErrPricingNotConfigured)
	}

	charge, err := s.CalculateMonthlyCharge(ctx, tenantID, types.MonthPeriodOf(now))
	if err != nil {
		return nil, err
	}

	// The best configured tier across the tenant's active rows governs
	var discount6, discount12 int
	for _, p := range active {
		if p.Discount6MonthPercent > discount6 {
			discount6 = p.Discount6MonthPercent
		}
		if p.Discount12MonthPercent > discount12 {
			discount12 = p.Discount12MonthPercent
		}
	}

	discountPercent := 0
	switch {
	case months >= 12 && discount12 > 0:
		discountPercent = discount12
	case months >= 6 && discount6 > 0:
		discountPercent = discount6
	}

	subtotal := charge.TotalChargeMinor * int64(months)
	discountAmount := roundHalfUpPercent(subtotal, discountPercent)

	return &dto.BulkDiscountResponse{
		Months:              months,
		MonthlyChargeMinor:  charge.TotalChargeMinor,
		SubtotalMinor:       subtotal,
		DiscountPercent:     discountPercent,
		DiscountAmountMinor: discountAmount,
		TotalMinor:          subtotal - discountAmount,
	}, nil
}

// roundHalfUpPercent computes amount × percent / 100 rounded to the nearest
// whole minor unit, ties rounding half up.
func roundHalfUpPercent(amountMinor int64, percent int) int64 {
	if percent == 0 || amountMinor == 0 {
		return 0
	}
	return decimal.NewFromInt(amountMinor).
		Mul(decimal.NewFromInt(int64(percent))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// MonthsOfRunway divides available balance by the monthly charge. A zero
// charge means unbounded runway, reported as nil.
func MonthsOfRunway(availableMinor, monthlyChargeMinor int64) *decimal.Decimal {
	if monthlyChargeMinor <= 0 {
		return nil
	}
	months := decimal.NewFromInt(availableMinor).
		DivRound(decimal.NewFromInt(monthlyChargeMinor), 4)
	return &months
}

func (s *billingService) RecordUsage(ctx context.Context, tenantID string, req *dto.RecordUsageRequest) (*usage.MonthlyUsage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var result *usage.MonthlyUsage
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		u, err := s.loadOrCreateUsage(ctx, tenantID, types.MonthPeriodOf(time.Now()), true)
		if err != nil {
			return err
		}

		switch req.Service {
		case types.ServiceKindEpaper:
			u.EpaperPages += req.Units
		case types.ServiceKindCustomService:
			u.CustomUnits += req.Units
		default:
			return ierr.NewError("service does not accumulate usage").
				WithHint("Only metered services accept usage events").
				WithReportableDetails(map[string]any{"service": req.Service}).
				Mark(ierr.ErrValidation)
		}

		if err := s.UsageRepo.Update(ctx, u); err != nil {
			return err
		}
		result = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *billingService) RecordOtherCharge(ctx context.Context, tenantID string, req *dto.RecordOtherChargeRequest) (*usage.MonthlyUsage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var result *usage.MonthlyUsage
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		u, err := s.loadOrCreateUsage(ctx, tenantID, types.MonthPeriodOf(time.Now()), true)
		if err != nil {
			return err
		}

		u.OtherChargesMinor += req.AmountMinor
		if err := s.UsageRepo.Update(ctx, u); err != nil {
			return err
		}

		s.Logger.Infow("other charge recorded",
			"tenant_id", tenantID,
			"amount_minor", req.AmountMinor,
			"description", req.Description,
		)
		result = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *billingService) GetCurrentUsage(ctx context.Context, tenantID string) (*dto.MonthlyChargeResponse, error) {
	return s.CalculateMonthlyCharge(ctx, tenantID, types.MonthPeriodOf(time.Now()))
}

// loadOrCreateUsage fetches the tenant's usage row for the period, creating a
// zero-initialized one when the period has no row yet. With forUpdate the row
// is read under a row lock for the enclosing transaction.
func (s *billingService) loadOrCreateUsage(ctx context.Context, tenantID string, period types.BillingPeriod, forUpdate bool) (*usage.MonthlyUsage, error) {
	get := s.UsageRepo.GetByPeriod
	if forUpdate {
		get = s.UsageRepo.GetByPeriodForUpdate
	}

	u, err := get(ctx, tenantID, period.Start)
	if err == nil {
		return u, nil
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}

	if _, err := s.TenantRepo.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}

	u = usage.NewMonthlyUsage(ctx, tenantID, period)
	if err := s.UsageRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
