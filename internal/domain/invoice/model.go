package invoice

import (
	"time"

	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// Invoice represents one billing invoice with its line items. The total is
// constructed as the sum of the line items, never computed separately, so the
// additivity invariant holds by construction.
type Invoice struct {
	ID               string              `db:"id" json:"id"`
	InvoiceNumber    string              `db:"invoice_number" json:"invoice_number"`
	Kind             types.InvoiceKind   `db:"kind" json:"kind"`
	InvoiceStatus    types.InvoiceStatus `db:"invoice_status" json:"invoice_status"`
	Currency         string              `db:"currency" json:"currency"`
	PeriodStart      time.Time           `db:"period_start" json:"period_start"`
	PeriodEnd        time.Time           `db:"period_end" json:"period_end"`
	TotalAmountMinor int64               `db:"total_amount_minor" json:"total_amount_minor"`
	Description      string              `db:"description" json:"description"`
	PaidAt           *time.Time          `db:"paid_at" json:"paid_at,omitempty"`
	LineItems        []*LineItem         `db:"-" json:"line_items,omitempty"`
	types.BaseModel
}

func (i *Invoice) TableName() string {
	return "billing_invoices"
}

func (i *Invoice) Validate() error {
	if err := i.Kind.Validate(); err != nil {
		return err
	}
	if err := i.InvoiceStatus.Validate(); err != nil {
		return err
	}

	var sum int64
	for _, li := range i.LineItems {
		sum += li.AmountMinor
	}
	if sum != i.TotalAmountMinor {
		return ierr.NewError("invoice total does not equal sum of line items").
			WithHint("Invoice total must equal the sum of its line items").
			WithReportableDetails(map[string]any{
				"invoice_id":         i.ID,
				"total_amount_minor": i.TotalAmountMinor,
				"line_item_sum":      sum,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// LineItem is a single charge component on an invoice
type LineItem struct {
	ID              string `db:"id" json:"id"`
	InvoiceID       string `db:"invoice_id" json:"invoice_id"`
	Component       string `db:"component" json:"component"`
	Description     string `db:"description" json:"description"`
	Quantity        int64  `db:"quantity" json:"quantity"`
	UnitAmountMinor int64  `db:"unit_amount_minor" json:"unit_amount_minor"`
	AmountMinor     int64  `db:"amount_minor" json:"amount_minor"`
	types.BaseModel
}

func (li *LineItem) TableName() string {
	return "billing_invoice_line_items"
}
