package usage

import (
	"context"
	"time"
)

// Repository defines the interface for monthly usage persistence
type Repository interface {
	Create(ctx context.Context, u *MonthlyUsage) error
	GetByPeriod(ctx context.Context, tenantID string, periodStart time.Time) (*MonthlyUsage, error)
	GetByPeriodForUpdate(ctx context.Context, tenantID string, periodStart time.Time) (*MonthlyUsage, error)
	Update(ctx context.Context, u *MonthlyUsage) error

	// LinkInvoice stamps the invoice id onto the usage row only when no
	// invoice is linked yet. Returns false when the guard lost, i.e. the
	// period was already billed.
	LinkInvoice(ctx context.Context, id string, invoiceID string) (bool, error)
}
