package invoice

import (
	"context"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// Repository defines the interface for invoice persistence
type Repository interface {
	// CreateWithLineItems persists the invoice and its line items in one call
	CreateWithLineItems(ctx context.Context, i *Invoice) error

	GetByID(ctx context.Context, id string) (*Invoice, error)
	GetByPeriod(ctx context.Context, tenantID string, periodStart time.Time) (*Invoice, error)
	List(ctx context.Context, tenantID string, f *types.InvoiceFilter) ([]*Invoice, error)
	Count(ctx context.Context, tenantID string, f *types.InvoiceFilter) (int, error)

	// UpdateStatus transitions the settlement state; paidAt is set for PAID
	UpdateStatus(ctx context.Context, id string, status types.InvoiceStatus, paidAt *time.Time) error
}
