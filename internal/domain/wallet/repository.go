package wallet

import (
	"context"

	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// Repository defines the interface for wallet persistence operations.
// GetByTenantIDForUpdate must take a row lock so that a read-validate-write
// cycle inside a transaction cannot race another writer.
type Repository interface {
	// Wallet operations
	Create(ctx context.Context, w *Wallet) error
	GetByTenantID(ctx context.Context, tenantID string) (*Wallet, error)
	GetByTenantIDForUpdate(ctx context.Context, tenantID string) (*Wallet, error)
	UpdateBalances(ctx context.Context, id string, balanceMinor, lockedBalanceMinor int64) error

	// Transaction operations (append-only)
	CreateTransaction(ctx context.Context, t *Transaction) error
	ListTransactions(ctx context.Context, tenantID string, f *types.TransactionFilter) ([]*Transaction, error)
	CountTransactions(ctx context.Context, tenantID string, f *types.TransactionFilter) (int, error)
}
