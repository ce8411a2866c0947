package wallet

import (
	"context"

	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// Wallet holds a tenant's prepaid balance. One wallet per tenant, keyed by
// BaseModel.TenantID, created lazily on first access and never deleted while
// the tenant exists. All amounts are integer minor currency units.
type Wallet struct {
	ID                 string `db:"id" json:"id"`
	Currency           string `db:"currency" json:"currency"`
	BalanceMinor       int64  `db:"balance_minor" json:"balance_minor"`
	LockedBalanceMinor int64  `db:"locked_balance_minor" json:"locked_balance_minor"`
	types.BaseModel
}

func (w *Wallet) TableName() string {
	return "wallets"
}

// AvailableBalanceMinor is the portion the tenant can actually spend
func (w *Wallet) AvailableBalanceMinor() int64 {
	return w.BalanceMinor - w.LockedBalanceMinor
}

func (w *Wallet) Validate() error {
	if w.BalanceMinor < 0 {
		return ierr.NewError("wallet balance is negative").
			WithHint("Wallet balance can never be persisted negative").
			WithReportableDetails(map[string]any{
				"tenant_id":     w.TenantID,
				"balance_minor": w.BalanceMinor,
			}).
			Mark(ierr.ErrWouldGoNegative)
	}
	if w.LockedBalanceMinor < 0 || w.LockedBalanceMinor > w.BalanceMinor {
		return ierr.NewError("locked balance out of range").
			WithHint("Locked balance must stay between zero and the wallet balance").
			WithReportableDetails(map[string]any{
				"tenant_id":            w.TenantID,
				"balance_minor":        w.BalanceMinor,
				"locked_balance_minor": w.LockedBalanceMinor,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// NewWallet returns a zero-balance wallet for the tenant
func NewWallet(ctx context.Context, tenantID, currency string) *Wallet {
	w := &Wallet{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WALLET),
		Currency:  currency,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	w.TenantID = tenantID
	return w
}
