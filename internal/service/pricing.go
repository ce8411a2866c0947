package service

import (
	"context"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/api/dto"
	"github.com/atshybrid/kaburlu-billing/internal/cache"
	"github.com/atshybrid/kaburlu-billing/internal/domain/pricing"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// PricingService is the versioned pricing catalog. Rows are never edited in
// place: every change closes the current row and inserts a new active one, so
// the catalog doubles as pricing history.
type PricingService interface {
	GetActivePricing(ctx context.Context, tenantID string, service types.ServiceKind, asOf time.Time) (*pricing.Pricing, error)
	ListActivePricing(ctx context.Context, tenantID string, asOf time.Time) ([]*pricing.Pricing, error)
	SetPricing(ctx context.Context, tenantID string, req *dto.SetPricingRequest) (*pricing.Pricing, error)
	ListPricing(ctx context.Context, tenantID string) ([]*pricing.Pricing, error)
	UpdatePricing(ctx context.Context, tenantID string, pricingID string, req *dto.SetPricingRequest) (*pricing.Pricing, error)
	DeletePricing(ctx context.Context, tenantID string, pricingID string) error
	ListServices(ctx context.Context, tenantID string) ([]*dto.ServiceStatusResponse, error)
	ToggleService(ctx context.Context, tenantID string, service types.ServiceKind, req *dto.ToggleServiceRequest) error
}

type pricingService struct {
	ServiceParams
}

func NewPricingService(params ServiceParams) PricingService {
	return &pricingService{ServiceParams: params}
}

func (s *pricingService) GetActivePricing(ctx context.Context, tenantID string, service types.ServiceKind, asOf time.Time) (*pricing.Pricing, error) {
	key := cache.GenerateKey(cache.PrefixPricing, tenantID, service, asOf.UTC().Format("2006-01-02"))
	if cached, found := s.Cache.Get(ctx, key); found {
		if p, ok := cached.(*pricing.Pricing); ok {
			return p, nil
		}
	}

	p, err := s.PricingRepo.GetActive(ctx, tenantID, string(service), asOf)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, p, cache.DefaultExpiration)
	return p, nil
}

func (s *pricingService) ListActivePricing(ctx context.Context, tenantID string, asOf time.Time) ([]*pricing.Pricing, error) {
	return s.PricingRepo.ListActive(ctx, tenantID, asOf)
}

func (s *pricingService) SetPricing(ctx context.Context, tenantID string, req *dto.SetPricingRequest) (*pricing.Pricing, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.TenantRepo.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}

	effectiveFrom := time.Now().UTC()
	if req.EffectiveFrom != nil {
		effectiveFrom = req.EffectiveFrom.UTC()
	}

	p := &pricing.Pricing{
		ID:                     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRICING),
		Service:                req.Service,
		PricePerUnitMinor:      req.PricePerUnitMinor,
		MonthlyFeeMinor:        req.MonthlyFeeMinor,
		MinUnitsPerPeriod:      req.MinUnitsPerPeriod,
		Discount6MonthPercent:  req.Discount6MonthPercent,
		Discount12MonthPercent: req.Discount12MonthPercent,
		IsActive:               true,
		EffectiveFrom:          effectiveFrom,
		BaseModel:              types.GetDefaultBaseModel(ctx),
	}
	p.TenantID = tenantID
	if err := p.Validate(); err != nil {
		return nil, err
	}

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.PricingRepo.GetActive(ctx, tenantID, string(req.Service), effectiveFrom)
		if err != nil && !ierr.Is(err, ierr.ErrPricingNotConfigured) {
			return err
		}
		if current != nil {
			if err := s.PricingRepo.Deactivate(ctx, current.ID, effectiveFrom); err != nil {
				return err
			}
		}
		return s.PricingRepo.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, tenantID)
	s.Logger.Infow("pricing set",
		"tenant_id", tenantID,
		"service", req.Service,
		"pricing_id", p.ID,
	)
	return p, nil
}

func (s *pricingService) ListPricing(ctx context.Context, tenantID string) ([]*pricing.Pricing, error) {
	return s.PricingRepo.List(ctx, tenantID)
}

func (s *pricingService) UpdatePricing(ctx context.Context, tenantID string, pricingID string, req *dto.SetPricingRequest) (*pricing.Pricing, error) {
	existing, err := s.getTenantPricing(ctx, tenantID, pricingID)
	if err != nil {
		return nil, err
	}

	// An update is a new version for the same service, never an in-place edit
	req.Service = existing.Service
	return s.SetPricing(ctx, tenantID, req)
}

func (s *pricingService) DeletePricing(ctx context.Context, tenantID string, pricingID string) error {
	existing, err := s.getTenantPricing(ctx, tenantID, pricingID)
	if err != nil {
		return err
	}

	if err := s.PricingRepo.Deactivate(ctx, existing.ID, time.Now().UTC()); err != nil {
		return err
	}
	s.invalidateCache(ctx, tenantID)
	return nil
}

func (s *pricingService) ListServices(ctx context.Context, tenantID string) ([]*dto.ServiceStatusResponse, error) {
	active, err := s.PricingRepo.ListActive(ctx, tenantID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	byService := make(map[types.ServiceKind]*pricing.Pricing, len(active))
	for _, p := range active {
		if _, ok := byService[p.Service]; !ok {
			byService[p.Service] = p
		}
	}

	services := types.AllServiceKinds()
	out := make([]*dto.ServiceStatusResponse, 0, len(services))
	for _, svc := range services {
		p := byService[svc]
		out = append(out, &dto.ServiceStatusResponse{
			Service: svc,
			Metered: svc.IsMetered(),
			Active:  p != nil,
			Pricing: p,
		})
	}
	return out, nil
}

func (s *pricingService) ToggleService(ctx context.Context, tenantID string, service types.ServiceKind, req *dto.ToggleServiceRequest) error {
	if err := service.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	current, err := s.PricingRepo.GetActive(ctx, tenantID, string(service), now)
	if err != nil && !ierr.Is(err, ierr.ErrPricingNotConfigured) {
		return err
	}

	if !req.Active {
		if current == nil {
			return nil
		}
		if err := s.PricingRepo.Deactivate(ctx, current.ID, now); err != nil {
			return err
		}
		s.invalidateCache(ctx, tenantID)
		return nil
	}

	if current != nil {
		return nil
	}

	setReq := req.Pricing
	if setReq == nil {
		// Reactivate from the most recent historical version when none given
		history, err := s.PricingRepo.List(ctx, tenantID)
		if err != nil {
			return err
		}
		for _, p := range history {
			if p.Service == service {
				setReq = &dto.SetPricingRequest{
					Service:                p.Service,
					PricePerUnitMinor:      p.PricePerUnitMinor,
					MonthlyFeeMinor:        p.MonthlyFeeMinor,
					MinUnitsPerPeriod:      p.MinUnitsPerPeriod,
					Discount6MonthPercent:  p.Discount6MonthPercent,
					Discount12MonthPercent: p.Discount12MonthPercent,
				}
				break
			}
		}
	}
	if setReq == nil {
		return ierr.NewError("no pricing to activate the service with").
			WithHint("Provide pricing fields to activate a service with no pricing history").
			WithReportableDetails(map[string]any{
				"tenant_id": tenantID,
				"service":   service,
			}).
			Mark(ierr.ErrValidation)
	}

	setReq.Service = service
	_, err = s.SetPricing(ctx, tenantID, setReq)
	return err
}

func (s *pricingService) getTenantPricing(ctx context.Context, tenantID string, pricingID string) (*pricing.Pricing, error) {
	p, err := s.PricingRepo.GetByID(ctx, pricingID)
	if err != nil {
		return nil, err
	}
	if p.TenantID != tenantID {
		return nil, ierr.NewError("pricing not found").
			WithReportableDetails(map[string]any{"pricing_id": pricingID}).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *pricingService) invalidateCache(ctx context.Context, tenantID string) {
	s.Cache.DeleteByPrefix(ctx, cache.GenerateKey(cache.PrefixPricing, tenantID))
}
