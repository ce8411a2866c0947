package testutil

import (
	"context"
	"sync"

	"github.com/atshybrid/kaburlu-billing/internal/domain/wallet"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// InMemoryWalletStore implements wallet.Repository
type InMemoryWalletStore struct {
	mu           sync.RWMutex
	wallets      *InMemoryStore[*wallet.Wallet]
	transactions []*wallet.Transaction
}

func NewInMemoryWalletStore() *InMemoryWalletStore {
	return &InMemoryWalletStore{
		wallets: NewInMemoryStore[*wallet.Wallet](),
	}
}

func (s *InMemoryWalletStore) Create(ctx context.Context, w *wallet.Wallet) error {
	if err := s.wallets.Create(ctx, w.ID, w); err != nil {
		return ierr.NewError("wallet already exists").
			WithReportableDetails(map[string]any{"wallet_id": w.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryWalletStore) GetByTenantID(ctx context.Context, tenantID string) (*wallet.Wallet, error) {
	wallets, _ := s.wallets.List(ctx, nil, func(_ context.Context, w *wallet.Wallet, _ interface{}) bool {
		return w.TenantID == tenantID && w.Status == types.StatusPublished
	}, nil)
	if len(wallets) == 0 {
		return nil, ierr.NewError("wallet not found").
			WithReportableDetails(map[string]any{"tenant_id": tenantID}).
			Mark(ierr.ErrNotFound)
	}
	return wallets[0], nil
}

func (s *InMemoryWalletStore) GetByTenantIDForUpdate(ctx context.Context, tenantID string) (*wallet.Wallet, error) {
	return s.GetByTenantID(ctx, tenantID)
}

func (s *InMemoryWalletStore) UpdateBalances(ctx context.Context, id string, balanceMinor, lockedBalanceMinor int64) error {
	w, err := s.wallets.Get(ctx, id)
	if err != nil {
		return ierr.NewError("wallet not found").
			WithReportableDetails(map[string]any{"wallet_id": id}).
			Mark(ierr.ErrNotFound)
	}
	w.BalanceMinor = balanceMinor
	w.LockedBalanceMinor = lockedBalanceMinor
	return nil
}

func (s *InMemoryWalletStore) CreateTransaction(ctx context.Context, t *wallet.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, t)
	return nil
}

func (s *InMemoryWalletStore) ListTransactions(ctx context.Context, tenantID string, f *types.TransactionFilter) ([]*wallet.Transaction, error) {
	if f == nil {
		f = &types.TransactionFilter{}
	}

	matched := s.matchTransactions(tenantID, f)

	// Reverse chronological: newest insertion first
	out := make([]*wallet.Transaction, 0, len(matched))
	for i := len(matched) - 1; i >= 0; i-- {
		out = append(out, matched[i])
	}

	offset := f.GetOffset()
	if offset >= len(out) {
		return []*wallet.Transaction{}, nil
	}
	end := offset + f.GetLimit()
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (s *InMemoryWalletStore) CountTransactions(ctx context.Context, tenantID string, f *types.TransactionFilter) (int, error) {
	return len(s.matchTransactions(tenantID, f)), nil
}

func (s *InMemoryWalletStore) matchTransactions(tenantID string, f *types.TransactionFilter) []*wallet.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*wallet.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if t.TenantID != tenantID {
			continue
		}
		if f != nil && f.Type != nil && t.Type != *f.Type {
			continue
		}
		matched = append(matched, t)
	}
	return matched
}

// Transactions returns every stored transaction for assertions
func (s *InMemoryWalletStore) Transactions(tenantID string) []*wallet.Transaction {
	return s.matchTransactions(tenantID, nil)
}

func (s *InMemoryWalletStore) Clear() {
	s.mu.Lock()
	s.transactions = nil
	s.mu.Unlock()
	s.wallets.Clear()
}
