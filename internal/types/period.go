package types

import (
	"fmt"
	"time"

	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
)

// BillingPeriod is a calendar month, represented by its first and last instant
// in UTC. Periods are the billing cycle granularity everywhere in the engine.
type BillingPeriod struct {
	Start time.Time `json:"period_start"`
	End   time.Time `json:"period_end"`
}

// MonthPeriodOf returns the billing period containing t
func MonthPeriodOf(t time.Time) BillingPeriod {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return BillingPeriod{
		Start: start,
		End:   start.AddDate(0, 1, 0).Add(-time.Nanosecond),
	}
}

// PreviousMonthPeriod returns the billing period for the month before t.
// The monthly billing run invoices this period.
func PreviousMonthPeriod(t time.Time) BillingPeriod {
	return MonthPeriodOf(MonthPeriodOf(t).Start.AddDate(0, 0, -1))
}

// Key renders the period as YYYY-MM for logs and summaries
func (p BillingPeriod) Key() string {
	return p.Start.Format("2006-01")
}

func (p BillingPeriod) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() || !p.End.After(p.Start) {
		return ierr.NewError("invalid billing period").
			WithHint("Billing period must be a calendar month").
			WithReportableDetails(map[string]any{
				"period_start": p.Start,
				"period_end":   p.End,
			}).
			Mark(ierr.ErrValidation)
	}
	if normalized := MonthPeriodOf(p.Start); !normalized.Start.Equal(p.Start) {
		return ierr.NewError(fmt.Sprintf("period start %s is not the first instant of a month", p.Start)).
			WithHint("Billing period must start at the first instant of a calendar month").
			Mark(ierr.ErrValidation)
	}
	return nil
}
