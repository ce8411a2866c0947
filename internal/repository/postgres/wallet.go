package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/domain/wallet"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/logger"
	"github.com/atshybrid/kaburlu-billing/internal/postgres"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

type walletRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewWalletRepository creates a wallet repository backed by postgres
func NewWalletRepository(db *postgres.DB, logger *logger.Logger) wallet.Repository {
	return &walletRepository{db: db, logger: logger}
}

const walletColumns = `id, currency, balance_minor, locked_balance_minor,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *walletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO wallets (`+walletColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		w.ID, w.Currency, w.BalanceMinor, w.LockedBalanceMinor,
		w.TenantID, w.Status, w.CreatedAt, w.UpdatedAt, w.CreatedBy, w.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create wallet").
			WithReportableDetails(map[string]any{"tenant_id": w.TenantID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *walletRepository) GetByTenantID(ctx context.Context, tenantID string) (*wallet.Wallet, error) {
	return r.getByTenantID(ctx, tenantID, false)
}

func (r *walletRepository) GetByTenantIDForUpdate(ctx context.Context, tenantID string) (*wallet.Wallet, error) {
	return r.getByTenantID(ctx, tenantID, true)
}

func (r *walletRepository) getByTenantID(ctx context.Context, tenantID string, forUpdate bool) (*wallet.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE tenant_id = $1 AND status = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var w wallet.Wallet
	q := r.db.GetQuerier(ctx)
	err := q.GetContext(ctx, &w, query, tenantID, types.StatusPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("wallet not found").
				WithHint("No wallet exists for this tenant").
				WithReportableDetails(map[string]any{"tenant_id": tenantID}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load wallet").
			Mark(ierr.ErrDatabase)
	}
	return &w, nil
}

func (r *walletRepository) UpdateBalances(ctx context.Context, id string, balanceMinor, lockedBalanceMinor int64) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE wallets
		SET balance_minor = $2, locked_balance_minor = $3, updated_at = $4
		WHERE id = $1`,
		id, balanceMinor, lockedBalanceMinor, time.Now().UTC(),
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update wallet balances").
			WithReportableDetails(map[string]any{"wallet_id": id}).
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("wallet not found").
			WithReportableDetails(map[string]any{"wallet_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

const transactionColumns = `id, wallet_id, type, amount_minor, balance_after_minor,
	description, reference_type, reference_id, metadata,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *walletRepository) CreateTransaction(ctx context.Context, t *wallet.Transaction) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO wallet_transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		t.ID, t.WalletID, t.Type, t.AmountMinor, t.BalanceAfterMinor,
		t.Description, t.ReferenceType, t.ReferenceID, t.Metadata,
		t.TenantID, t.Status, t.CreatedAt, t.UpdatedAt, t.CreatedBy, t.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to append wallet transaction").
			WithReportableDetails(map[string]any{
				"wallet_id": t.WalletID,
				"type":      t.Type,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, tenantID string, f *types.TransactionFilter) ([]*wallet.Transaction, error) {
	if f == nil {
		f = &types.TransactionFilter{}
	}

	query := `SELECT ` + transactionColumns + `
		FROM wallet_transactions
		WHERE tenant_id = $1`
	args := []interface{}{tenantID}

	if f.Type != nil {
		args = append(args, *f.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}

	args = append(args, f.GetLimit(), f.GetOffset())
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	var transactions []*wallet.Transaction
	q := r.db.GetQuerier(ctx)
	if err := q.SelectContext(ctx, &transactions, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list wallet transactions").
			Mark(ierr.ErrDatabase)
	}
	return transactions, nil
}

func (r *walletRepository) CountTransactions(ctx context.Context, tenantID string, f *types.TransactionFilter) (int, error) {
	query := `SELECT COUNT(*) FROM wallet_transactions WHERE tenant_id = $1`
	args := []interface{}{tenantID}

	if f != nil && f.Type != nil {
		args = append(args, *f.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}

	var count int
	q := r.db.GetQuerier(ctx)
	if err := q.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count wallet transactions").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}
