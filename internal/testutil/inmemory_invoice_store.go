package testutil

import (
	"context"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/domain/invoice"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

func (s *InMemoryInvoiceStore) CreateWithLineItems(ctx context.Context, i *invoice.Invoice) error {
	if err := s.InMemoryStore.Create(ctx, i.ID, i); err != nil {
		return ierr.NewError("invoice already exists").
			WithReportableDetails(map[string]any{"invoice_id": i.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryInvoiceStore) GetByID(ctx context.Context, id string) (*invoice.Invoice, error) {
	i, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("invoice not found").
			WithReportableDetails(map[string]any{"invoice_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return i, nil
}

func (s *InMemoryInvoiceStore) GetByPeriod(ctx context.Context, tenantID string, periodStart time.Time) (*invoice.Invoice, error) {
	rows, _ := s.InMemoryStore.List(ctx, nil, func(_ context.Context, i *invoice.Invoice, _ interface{}) bool {
		return i.TenantID == tenantID &&
			i.Kind == types.InvoiceKindSubscription &&
			i.PeriodStart.Equal(periodStart)
	}, nil)
	if len(rows) == 0 {
		return nil, ierr.NewError("invoice not found for period").
			WithReportableDetails(map[string]any{
				"tenant_id":    tenantID,
				"period_start": periodStart,
			}).
			Mark(ierr.ErrNotFound)
	}
	return rows[0], nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, tenantID string, f *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	if f == nil {
		f = &types.InvoiceFilter{}
	}
	rows, _ := s.matchInvoices(ctx, tenantID, f)

	offset := f.GetOffset()
	if offset >= len(rows) {
		return []*invoice.Invoice{}, nil
	}
	end := offset + f.GetLimit()
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end], nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, tenantID string, f *types.InvoiceFilter) (int, error) {
	rows, _ := s.matchInvoices(ctx, tenantID, f)
	return len(rows), nil
}

func (s *InMemoryInvoiceStore) matchInvoices(ctx context.Context, tenantID string, f *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	return s.InMemoryStore.List(ctx, nil, func(_ context.Context, i *invoice.Invoice, _ interface{}) bool {
		if i.TenantID != tenantID {
			return false
		}
		if f != nil && f.Status != nil && i.InvoiceStatus != *f.Status {
			return false
		}
		return true
	}, func(i, j *invoice.Invoice) bool {
		return i.PeriodStart.After(j.PeriodStart)
	})
}

func (s *InMemoryInvoiceStore) UpdateStatus(ctx context.Context, id string, status types.InvoiceStatus, paidAt *time.Time) error {
	i, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	i.InvoiceStatus = status
	i.PaidAt = paidAt
	return nil
}
