package wallet

import (
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// WalletOperation is the request to mutate a wallet. AmountMinor is the
// magnitude for every type except ADJUSTMENT, where it is signed.
type WalletOperation struct {
	TenantID      string                      `json:"tenant_id"`
	Type          types.TransactionType       `json:"type"`
	AmountMinor   int64                       `json:"amount_minor"`
	Description   string                      `json:"description,omitempty"`
	ReferenceType types.WalletTxReferenceType `json:"reference_type,omitempty"`
	ReferenceID   string                      `json:"reference_id,omitempty"`
	Metadata      types.Metadata              `json:"metadata,omitempty"`
}

func (op *WalletOperation) Validate() error {
	if op.TenantID == "" {
		return ierr.NewError("tenant_id is required").
			WithHint("tenant_id is required").
			Mark(ierr.ErrValidation)
	}

	if err := op.Type.Validate(); err != nil {
		return err
	}

	if err := op.ReferenceType.Validate(); err != nil {
		return err
	}

	switch op.Type {
	case types.TransactionTypeAdjustment:
		if op.AmountMinor == 0 {
			return ierr.NewError("adjustment amount must be non-zero").
				WithHint("Adjustment amount must be non-zero").
				Mark(ierr.ErrInvalidAmount)
		}
	default:
		if op.AmountMinor <= 0 {
			return ierr.NewError("amount must be positive").
				WithHint("Amount must be a positive number of minor currency units").
				WithReportableDetails(map[string]any{
					"amount_minor": op.AmountMinor,
					"type":         op.Type,
				}).
				Mark(ierr.ErrInvalidAmount)
		}
	}

	return nil
}
