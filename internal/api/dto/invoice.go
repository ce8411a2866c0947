package dto

import (
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/domain/invoice"
	"github.com/atshybrid/kaburlu-billing/internal/types"
	"github.com/atshybrid/kaburlu-billing/internal/validator"
)

type GenerateInvoiceRequest struct {
	PeriodStart time.Time `json:"period_start" validate:"required"`
	PeriodEnd   time.Time `json:"period_end" validate:"required"`
}

func (r *GenerateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return types.BillingPeriod{Start: r.PeriodStart, End: r.PeriodEnd}.Validate()
}

// GenerateInvoiceResponse reports the outcome of one invoice generation run.
// NoCharge is true when the period computed to zero and no invoice exists.
type GenerateInvoiceResponse struct {
	NoCharge bool             `json:"no_charge"`
	Invoice  *invoice.Invoice `json:"invoice,omitempty"`
}

type ListInvoicesResponse = types.ListResponse[*invoice.Invoice]
