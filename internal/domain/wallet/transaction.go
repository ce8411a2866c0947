package wallet

import (
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// Transaction is one immutable entry in a wallet's ledger. Rows are append
// only: never updated or deleted once written. AmountMinor is signed,
// negative for DEBIT and negative adjustments, so the signed sum of a
// wallet's transactions reconciles against its balance. BalanceAfterMinor
// snapshots the balance immediately after the entry for audit reconciliation.
type Transaction struct {
	ID                string                      `db:"id" json:"id"`
	WalletID          string                      `db:"wallet_id" json:"wallet_id"`
	Type              types.TransactionType       `db:"type" json:"type"`
	AmountMinor       int64                       `db:"amount_minor" json:"amount_minor"`
	BalanceAfterMinor int64                       `db:"balance_after_minor" json:"balance_after_minor"`
	Description       string                      `db:"description" json:"description"`
	ReferenceType     types.WalletTxReferenceType `db:"reference_type" json:"reference_type"`
	ReferenceID       string                      `db:"reference_id" json:"reference_id"`
	Metadata          types.Metadata              `db:"metadata" json:"metadata"`
	types.BaseModel
}

func (t *Transaction) TableName() string {
	return "wallet_transactions"
}
