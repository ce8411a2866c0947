package usage

import (
	"context"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// MonthlyUsage accumulates one tenant's usage for one calendar month and
// carries the charges computed from it. Counters are incremented as events
// occur during the month; charge fields are recomputed idempotently whenever
// the billing calculator runs. InvoiceID is the idempotency link: once set,
// the period must not be billed again.
type MonthlyUsage struct {
	ID          string    `db:"id" json:"id"`
	PeriodStart time.Time `db:"period_start" json:"period_start"`
	PeriodEnd   time.Time `db:"period_end" json:"period_end"`

	// Usage counters
	EpaperPages int64 `db:"epaper_pages" json:"epaper_pages"`
	CustomUnits int64 `db:"custom_units" json:"custom_units"`

	// Computed charges
	EpaperChargeMinor  int64 `db:"epaper_charge_minor" json:"epaper_charge_minor"`
	WebsiteChargeMinor int64 `db:"website_charge_minor" json:"website_charge_minor"`
	PrintChargeMinor   int64 `db:"print_charge_minor" json:"print_charge_minor"`
	CustomChargeMinor  int64 `db:"custom_charge_minor" json:"custom_charge_minor"`
	OtherChargesMinor  int64 `db:"other_charges_minor" json:"other_charges_minor"`
	TotalChargeMinor   int64 `db:"total_charge_minor" json:"total_charge_minor"`

	InvoiceID *string `db:"invoice_id" json:"invoice_id,omitempty"`
	types.BaseModel
}

func (u *MonthlyUsage) TableName() string {
	return "tenant_usage_monthly"
}

// IsBilled reports whether the period already produced an invoice
func (u *MonthlyUsage) IsBilled() bool {
	return u.InvoiceID != nil && *u.InvoiceID != ""
}

// NewMonthlyUsage returns a zero-initialized usage row for the period
func NewMonthlyUsage(ctx context.Context, tenantID string, period types.BillingPeriod) *MonthlyUsage {
	u := &MonthlyUsage{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USAGE),
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
	u.TenantID = tenantID
	return u
}
