package testutil

import (
	"context"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/domain/usage"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
)

// InMemoryUsageStore implements usage.Repository
type InMemoryUsageStore struct {
	*InMemoryStore[*usage.MonthlyUsage]
}

func NewInMemoryUsageStore() *InMemoryUsageStore {
	return &InMemoryUsageStore{
		InMemoryStore: NewInMemoryStore[*usage.MonthlyUsage](),
	}
}

func (s *InMemoryUsageStore) Create(ctx context.Context, u *usage.MonthlyUsage) error {
	if err := s.InMemoryStore.Create(ctx, u.ID, u); err != nil {
		return ierr.NewError("usage row already exists").
			WithReportableDetails(map[string]any{"usage_id": u.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryUsageStore) GetByPeriod(ctx context.Context, tenantID string, periodStart time.Time) (*usage.MonthlyUsage, error) {
	rows, _ := s.InMemoryStore.List(ctx, nil, func(_ context.Context, u *usage.MonthlyUsage, _ interface{}) bool {
		return u.TenantID == tenantID && u.PeriodStart.Equal(periodStart)
	}, nil)
	if len(rows) == 0 {
		return nil, ierr.NewError("usage row not found").
			WithReportableDetails(map[string]any{
				"tenant_id":    tenantID,
				"period_start": periodStart,
			}).
			Mark(ierr.ErrNotFound)
	}
	return rows[0], nil
}

func (s *InMemoryUsageStore) GetByPeriodForUpdate(ctx context.Context, tenantID string, periodStart time.Time) (*usage.MonthlyUsage, error) {
	return s.GetByPeriod(ctx, tenantID, periodStart)
}

func (s *InMemoryUsageStore) Update(ctx context.Context, u *usage.MonthlyUsage) error {
	if err := s.InMemoryStore.Update(ctx, u.ID, u); err != nil {
		return ierr.NewError("usage row not found").
			WithReportableDetails(map[string]any{"usage_id": u.ID}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryUsageStore) LinkInvoice(ctx context.Context, id string, invoiceID string) (bool, error) {
	u, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return false, ierr.NewError("usage row not found").
			WithReportableDetails(map[string]any{"usage_id": id}).
			Mark(ierr.ErrNotFound)
	}
	if u.InvoiceID != nil {
		return false, nil
	}
	u.InvoiceID = &invoiceID
	return true, nil
}
