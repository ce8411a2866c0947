package types

import (
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/samber/lo"
)

// TransactionType represents the kind of wallet transaction
type TransactionType string

const (
	TransactionTypeCredit     TransactionType = "CREDIT"
	TransactionTypeDebit      TransactionType = "DEBIT"
	TransactionTypeLock       TransactionType = "LOCK"
	TransactionTypeUnlock     TransactionType = "UNLOCK"
	TransactionTypeRefund     TransactionType = "REFUND"
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

func (t TransactionType) Validate() error {
	allowedValues := []string{
		string(TransactionTypeCredit),
		string(TransactionTypeDebit),
		string(TransactionTypeLock),
		string(TransactionTypeUnlock),
		string(TransactionTypeRefund),
		string(TransactionTypeAdjustment),
	}
	if !lo.Contains(allowedValues, string(t)) {
		return ierr.NewError("invalid transaction type").
			WithHint("Invalid transaction type").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"type":    t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// WalletTxReferenceType identifies what caused a wallet transaction
type WalletTxReferenceType string

const (
	WalletTxReferenceTypeTopup      WalletTxReferenceType = "TOPUP"
	WalletTxReferenceTypeBulkTopup  WalletTxReferenceType = "BULK_TOPUP"
	WalletTxReferenceTypeInvoice    WalletTxReferenceType = "INVOICE"
	WalletTxReferenceTypeAdjustment WalletTxReferenceType = "ADJUSTMENT"
	WalletTxReferenceTypeRefund     WalletTxReferenceType = "REFUND"
	WalletTxReferenceTypeSystem     WalletTxReferenceType = "SYSTEM"
)

func (t WalletTxReferenceType) Validate() error {
	if t == "" {
		return nil
	}

	allowedValues := []string{
		string(WalletTxReferenceTypeTopup),
		string(WalletTxReferenceTypeBulkTopup),
		string(WalletTxReferenceTypeInvoice),
		string(WalletTxReferenceTypeAdjustment),
		string(WalletTxReferenceTypeRefund),
		string(WalletTxReferenceTypeSystem),
	}
	if !lo.Contains(allowedValues, string(t)) {
		return ierr.NewError("invalid reference type").
			WithHint("Invalid wallet transaction reference type").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"type":    t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
