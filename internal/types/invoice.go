package types

import (
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/samber/lo"
)

// InvoiceKind represents the origin of an invoice
type InvoiceKind string

const (
	InvoiceKindSubscription InvoiceKind = "SUBSCRIPTION"
	InvoiceKindAdhoc        InvoiceKind = "ADHOC"
)

func (k InvoiceKind) Validate() error {
	allowedValues := []string{
		string(InvoiceKindSubscription),
		string(InvoiceKindAdhoc),
	}
	if !lo.Contains(allowedValues, string(k)) {
		return ierr.NewError("invalid invoice kind").
			WithHint("Invalid invoice kind").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"kind":    k,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceStatus represents the settlement state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "DRAFT"
	InvoiceStatusOpen    InvoiceStatus = "OPEN"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusVoid    InvoiceStatus = "VOID"
	InvoiceStatusPastDue InvoiceStatus = "PAST_DUE"
)

func (s InvoiceStatus) Validate() error {
	allowedValues := []string{
		string(InvoiceStatusDraft),
		string(InvoiceStatusOpen),
		string(InvoiceStatusPaid),
		string(InvoiceStatusVoid),
		string(InvoiceStatusPastDue),
	}
	if !lo.Contains(allowedValues, string(s)) {
		return ierr.NewError("invalid invoice status").
			WithHint("Invalid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"status":  s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsFinal reports whether the invoice can no longer transition
func (s InvoiceStatus) IsFinal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusVoid
}
