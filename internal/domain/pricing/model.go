package pricing

import (
	"time"

	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// Pricing is one versioned pricing row for a (tenant, service) pair. Rows are
// never edited in place: a change deactivates the current row, stamps its
// effective_until, and inserts a new active row, so historical invoices stay
// reproducible against the pricing actually in effect.
type Pricing struct {
	ID                     string            `db:"id" json:"id"`
	Service                types.ServiceKind `db:"service" json:"service"`
	PricePerUnitMinor      int64             `db:"price_per_unit_minor" json:"price_per_unit_minor"`
	MonthlyFeeMinor        int64             `db:"monthly_fee_minor" json:"monthly_fee_minor"`
	MinUnitsPerPeriod      int64             `db:"min_units_per_period" json:"min_units_per_period"`
	Discount6MonthPercent  int               `db:"discount_6_month_percent" json:"discount_6_month_percent"`
	Discount12MonthPercent int               `db:"discount_12_month_percent" json:"discount_12_month_percent"`
	IsActive               bool              `db:"is_active" json:"is_active"`
	EffectiveFrom          time.Time         `db:"effective_from" json:"effective_from"`
	EffectiveUntil         *time.Time        `db:"effective_until" json:"effective_until"`
	types.BaseModel
}

func (p *Pricing) TableName() string {
	return "tenant_pricing"
}

// InEffect reports whether the row governs the given date
func (p *Pricing) InEffect(asOf time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.EffectiveFrom.After(asOf) {
		return false
	}
	return p.EffectiveUntil == nil || !p.EffectiveUntil.Before(asOf)
}

func (p *Pricing) Validate() error {
	if err := p.Service.Validate(); err != nil {
		return err
	}
	if p.PricePerUnitMinor < 0 || p.MonthlyFeeMinor < 0 || p.MinUnitsPerPeriod < 0 {
		return ierr.NewError("pricing amounts must be non-negative").
			WithHint("Prices and minimum units must be non-negative").
			WithReportableDetails(map[string]any{
				"price_per_unit_minor": p.PricePerUnitMinor,
				"monthly_fee_minor":    p.MonthlyFeeMinor,
				"min_units_per_period": p.MinUnitsPerPeriod,
			}).
			Mark(ierr.ErrValidation)
	}
	for _, pct := range []int{p.Discount6MonthPercent, p.Discount12MonthPercent} {
		if pct < 0 || pct > 100 {
			return ierr.NewError("discount percent out of range").
				WithHint("Discount percentages must be between 0 and 100").
				WithReportableDetails(map[string]any{
					"discount_6_month_percent":  p.Discount6MonthPercent,
					"discount_12_month_percent": p.Discount12MonthPercent,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
