package service

import (
	"context"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/api/dto"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// BillingRunService drives the two scheduled jobs. Both iterate the full
// tenant set and isolate per-tenant failures so one bad tenant cannot halt
// the run; re-running is safe because invoice generation is idempotent per
// period.
type BillingRunService interface {
	RunMonthlyBilling(ctx context.Context, period types.BillingPeriod) (*dto.BillingRunSummary, error)
	RunBalanceHealthScan(ctx context.Context, asOf time.Time) (*dto.BalanceHealthSummary, error)
}

type billingRunService struct {
	ServiceParams
}

func NewBillingRunService(params ServiceParams) BillingRunService {
	return &billingRunService{ServiceParams: params}
}

func (s *billingRunService) RunMonthlyBilling(ctx context.Context, period types.BillingPeriod) (*dto.BillingRunSummary, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	tenants, err := s.TenantRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &dto.BillingRunSummary{
		Period:       period.Key(),
		StartedAt:    time.Now().UTC(),
		TenantsTotal: len(tenants),
	}

	invoiceService := NewInvoiceService(s.ServiceParams)
	for _, t := range tenants {
		// Locked tenants are skipped so charges do not pile on while locked
		if t.SubscriptionLocked {
			summary.LockedSkipped++
			continue
		}

		if billed, err := s.periodAlreadyBilled(ctx, t.ID, period); err != nil {
			s.recordRunError(summary, t.ID, err)
			continue
		} else if billed {
			summary.Invoiced++
			continue
		}

		result, err := invoiceService.GenerateMonthlyInvoice(ctx, t.ID, period)
		if err != nil {
			s.recordRunError(summary, t.ID, err)
			continue
		}
		if result.NoCharge {
			summary.NoCharge++
		} else {
			summary.Invoiced++
		}
	}

	summary.CompletedAt = time.Now().UTC()
	s.Logger.Infow("monthly billing run completed",
		"period", summary.Period,
		"tenants_total", summary.TenantsTotal,
		"invoiced", summary.Invoiced,
		"no_charge", summary.NoCharge,
		"locked_skipped", summary.LockedSkipped,
		"errored", summary.Errored,
	)
	return summary, nil
}

func (s *billingRunService) periodAlreadyBilled(ctx context.Context, tenantID string, period types.BillingPeriod) (bool, error) {
	u, err := s.UsageRepo.GetByPeriod(ctx, tenantID, period.Start)
	if err != nil {
		if ierr.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return u.IsBilled(), nil
}

func (s *billingRunService) recordRunError(summary *dto.BillingRunSummary, tenantID string, err error) {
	summary.Errored++
	summary.Errors = append(summary.Errors, dto.BillingRunError{
		TenantID: tenantID,
		Error:    err.Error(),
	})
	s.Logger.Errorw("billing run tenant failed", "tenant_id", tenantID, "error", err)
}

func (s *billingRunService) RunBalanceHealthScan(ctx context.Context, asOf time.Time) (*dto.BalanceHealthSummary, error) {
	tenants, err := s.TenantRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &dto.BalanceHealthSummary{
		AsOf:         asOf.UTC(),
		TenantsTotal: len(tenants),
		Reports:      make([]dto.BalanceHealthReport, 0, len(tenants)),
	}

	billingService := NewBillingService(s.ServiceParams)
	for _, t := range tenants {
		report, err := s.scanTenant(ctx, billingService, t.ID, asOf)
		if err != nil {
			summary.Errored++
			s.Logger.Errorw("balance health scan tenant failed", "tenant_id", t.ID, "error", err)
			continue
		}

		switch report.Health {
		case types.BalanceHealthHealthy:
			summary.Healthy++
		case types.BalanceHealthLow:
			summary.Low++
		case types.BalanceHealthCritical:
			summary.Critical++
		case types.BalanceHealthInsufficient:
			summary.Insufficient++
		}
		summary.Reports = append(summary.Reports, *report)
	}

	s.Logger.Infow("balance health scan completed",
		"tenants_total", summary.TenantsTotal,
		"healthy", summary.Healthy,
		"low", summary.Low,
		"critical", summary.Critical,
		"insufficient", summary.Insufficient,
		"errored", summary.Errored,
	)
	return summary, nil
}

func (s *billingRunService) scanTenant(ctx context.Context, billingService BillingService, tenantID string, asOf time.Time) (*dto.BalanceHealthReport, error) {
	var available int64
	w, err := s.WalletRepo.GetByTenantID(ctx, tenantID)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		// No wallet yet means a zero balance, not an error
	} else {
		available = w.AvailableBalanceMinor()
	}

	charge, err := billingService.CalculateMonthlyCharge(ctx, tenantID, types.MonthPeriodOf(asOf))
	if err != nil {
		return nil, err
	}

	monthsRemaining := MonthsOfRunway(available, charge.TotalChargeMinor)
	return &dto.BalanceHealthReport{
		TenantID:              tenantID,
		AvailableBalanceMinor: available,
		MonthlyChargeMinor:    charge.TotalChargeMinor,
		MonthsRemaining:       monthsRemaining,
		Health:                types.ClassifyRunway(monthsRemaining),
	}, nil
}
