package testutil

import (
	"context"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/domain/pricing"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
)

// InMemoryPricingStore implements pricing.Repository
type InMemoryPricingStore struct {
	*InMemoryStore[*pricing.Pricing]
}

func NewInMemoryPricingStore() *InMemoryPricingStore {
	return &InMemoryPricingStore{
		InMemoryStore: NewInMemoryStore[*pricing.Pricing](),
	}
}

func (s *InMemoryPricingStore) Create(ctx context.Context, p *pricing.Pricing) error {
	if err := s.InMemoryStore.Create(ctx, p.ID, p); err != nil {
		return ierr.NewError("pricing row already exists").
			WithReportableDetails(map[string]any{"pricing_id": p.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryPricingStore) GetByID(ctx context.Context, id string) (*pricing.Pricing, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("pricing not found").
			WithReportableDetails(map[string]any{"pricing_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryPricingStore) GetActive(ctx context.Context, tenantID string, service string, asOf time.Time) (*pricing.Pricing, error) {
	rows, _ := s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *pricing.Pricing, _ interface{}) bool {
		return p.TenantID == tenantID && string(p.Service) == service && p.InEffect(asOf)
	}, func(i, j *pricing.Pricing) bool {
		return i.EffectiveFrom.After(j.EffectiveFrom)
	})
	if len(rows) == 0 {
		return nil, ierr.NewError("no active pricing for service").
			WithReportableDetails(map[string]any{
				"tenant_id": tenantID,
				"service":   service,
			}).
			Mark(ierr.ErrPricingNotConfigured)
	}
	return rows[0], nil
}

func (s *InMemoryPricingStore) ListActive(ctx context.Context, tenantID string, asOf time.Time) ([]*pricing.Pricing, error) {
	return s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *pricing.Pricing, _ interface{}) bool {
		return p.TenantID == tenantID && p.InEffect(asOf)
	}, func(i, j *pricing.Pricing) bool {
		return i.EffectiveFrom.After(j.EffectiveFrom)
	})
}

func (s *InMemoryPricingStore) List(ctx context.Context, tenantID string) ([]*pricing.Pricing, error) {
	return s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *pricing.Pricing, _ interface{}) bool {
		return p.TenantID == tenantID
	}, func(i, j *pricing.Pricing) bool {
		return i.EffectiveFrom.After(j.EffectiveFrom)
	})
}

func (s *InMemoryPricingStore) Deactivate(ctx context.Context, id string, until time.Time) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.IsActive = false
	p.EffectiveUntil = &until
	return nil
}
