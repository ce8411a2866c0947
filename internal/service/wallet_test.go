package service

import (
	"testing"

	"github.com/atshybrid/kaburlu-billing/internal/api/dto"
	"github.com/atshybrid/kaburlu-billing/internal/domain/wallet"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/testutil"
	"github.com/atshybrid/kaburlu-billing/internal/types"
	"github.com/stretchr/testify/suite"
)

type WalletServiceSuite struct {
	testutil.BaseServiceTestSuite
	service WalletService
}

func TestWalletService(t *testing.T) {
	suite.Run(t, new(WalletServiceSuite))
}

func (s *WalletServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewWalletService(newTestServiceParams(&s.BaseServiceTestSuite))
	seedTenant(s.GetContext(), s.GetStores().TenantRepo, "tenant-1", "Tenant One")
}

func (s *WalletServiceSuite) credit(amount int64) *wallet.Wallet {
	w, err := s.service.Credit(s.GetContext(), &wallet.WalletOperation{
		TenantID:    "tenant-1",
		AmountMinor: amount,
	})
	s.NoError(err)
	return w
}

func (s *WalletServiceSuite) TestCreditCreatesWalletLazily() {
	w := s.credit(50000)

	s.Equal("tenant-1", w.TenantID)
	s.Equal(s.GetConfig().Billing.Currency, w.Currency)
	s.Equal(int64(50000), w.BalanceMinor)
	s.Equal(int64(0), w.LockedBalanceMinor)

	txns := s.GetStores().WalletRepo.(*testutil.InMemoryWalletStore).Transactions("tenant-1")
	s.Len(txns, 1)
	s.Equal(types.TransactionTypeCredit, txns[0].Type)
	s.Equal(int64(50000), txns[0].AmountMinor)
	s.Equal(int64(50000), txns[0].BalanceAfterMinor)
	s.Equal(types.WalletTxReferenceTypeTopup, txns[0].ReferenceType)
}

func (s *WalletServiceSuite) TestCreditUnknownTenant() {
	_, err := s.service.Credit(s.GetContext(), &wallet.WalletOperation{
		TenantID:    "tenant-missing",
		AmountMinor: 1000,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *WalletServiceSuite) TestCreditRejectsNonPositiveAmount() {
	_, err := s.service.Credit(s.GetContext(), &wallet.WalletOperation{
		TenantID:    "tenant-1",
		AmountMinor: 0,
	})
	s.Error(err)
	s.True(ierr.Is(err, ierr.ErrInvalidAmount))
}

func (s *WalletServiceSuite) TestDebitReducesBalance() {
	s.credit(50000)

	w, err := s.service.Debit(s.GetContext(), &wallet.WalletOperation{
		TenantID:      "tenant-1",
		AmountMinor:   20000,
		ReferenceType: types.WalletTxReferenceTypeInvoice,
		ReferenceID:   "inv-1",
	})
	s.NoError(err)
	s.Equal(int64(30000), w.BalanceMinor)

	txns := s.GetStores().WalletRepo.(*testutil.InMemoryWalletStore).Transactions("tenant-1")
	s.Len(txns, 2)
	s.Equal(int64(-20000), txns[1].AmountMinor)
	s.Equal(int64(30000), txns[1].BalanceAfterMinor)
}

func (s *WalletServiceSuite) TestDebitInsufficientBalance() {
	s.credit(10000)

	_, err := s.service.Debit(s.GetContext(), &wallet.WalletOperation{
		TenantID:      "tenant-1",
		AmountMinor:   10001,
		ReferenceType: types.WalletTxReferenceTypeInvoice,
	})
	s.Error(err)
	s.True(ierr.Is(err, ierr.ErrInsufficientBalance))

	// Failed debit leaves no ledger entry
	txns := s.GetStores().WalletRepo.(*testutil.InMemoryWalletStore).Transactions("tenant-1")
	s.Len(txns, 1)
}

func (s *WalletServiceSuite) TestLedgerConservation() {
	s.credit(100000)
	_, err := s.service.Debit(s.GetContext(), &wallet.WalletOperation{
		TenantID:      "tenant-1",
		AmountMinor:   30000,
		ReferenceType: types.WalletTxReferenceTypeInvoice,
	})
	s.NoError(err)
	_, err = s.service.Adjust(s.GetContext(), &wallet.WalletOperation{
		TenantID:    "tenant-1",
		AmountMinor: -5000,
		Description: "correction",
	})
	s.NoError(err)
	w, err := s.service.Refund(s.GetContext(), &wallet.WalletOperation{
		TenantID:    "tenant-1",
		AmountMinor: 2000,
	})
	s.NoError(err)

	var sum int64
	for _, t := range s.GetStores().WalletRepo.(*testutil.InMemoryWalletStore).Transactions("tenant-1") {
		switch t.Type {
		case types.TransactionTypeCredit, types.TransactionTypeDebit,
			types.TransactionTypeRefund, types.TransactionTypeAdjustment:
			sum += t.AmountMinor
		}
	}
	s.Equal(w.BalanceMinor, sum)
	s.Equal(int64(67000), w.BalanceMinor)
}

func (s *WalletServiceSuite) TestLockAndUnlockFunds() {
	s.credit(50000)

	w, err := s.service.LockFunds(s.GetContext(), "tenant-1", 30000, "hold-1")
	s.NoError(err)
	s.Equal(int64(50000), w.BalanceMinor)
	s.Equal(int64(30000), w.LockedBalanceMinor)
	s.Equal(int64(20000), w.AvailableBalanceMinor())

	// Locking more than the unlocked remainder fails
	_, err = s.service.LockFunds(s.GetContext(), "tenant-1", 20001, "hold-2")
	s.Error(err)
	s.True(ierr.Is(err, ierr.ErrInsufficientAvailableBalance))

	// Unlock clamps at zero rather than going negative
	w, err = s.service.UnlockFunds(s.GetContext(), "tenant-1", 40000, "hold-1")
	s.NoError(err)
	s.Equal(int64(0), w.LockedBalanceMinor)
	s.Equal(int64(50000), w.BalanceMinor)
}

func (s *WalletServiceSuite) TestDebitClampsLockedBalance() {
	s.credit(50000)
	_, err := s.service.LockFunds(s.GetContext(), "tenant-1", 40000, "hold-1")
	s.NoError(err)

	w, err := s.service.Debit(s.GetContext(), &wallet.WalletOperation{
		TenantID:      "tenant-1",
		AmountMinor:   20000,
		ReferenceType: types.WalletTxReferenceTypeInvoice,
	})
	s.NoError(err)
	s.Equal(int64(30000), w.BalanceMinor)
	s.Equal(int64(30000), w.LockedBalanceMinor)
}

func (s *WalletServiceSuite) TestAdjustWouldGoNegative() {
	s.credit(10000)

	_, err := s.service.Adjust(s.GetContext(), &wallet.WalletOperation{
		TenantID:    "tenant-1",
		AmountMinor: -10001,
	})
	s.Error(err)
	s.True(ierr.Is(err, ierr.ErrWouldGoNegative))
}

func (s *WalletServiceSuite) TestAdjustRejectsZeroAmount() {
	_, err := s.service.Adjust(s.GetContext(), &wallet.WalletOperation{
		TenantID:    "tenant-1",
		AmountMinor: 0,
	})
	s.Error(err)
	s.True(ierr.Is(err, ierr.ErrInvalidAmount))
}

func (s *WalletServiceSuite) TestCreditUnlocksLockedTenant() {
	s.credit(1000)

	lockService := NewAccessLockService(newTestServiceParams(&s.BaseServiceTestSuite))
	s.NoError(lockService.Lock(s.GetContext(), "tenant-1", "insufficient balance for monthly charges: required ₹500.00"))

	t, err := s.GetStores().TenantRepo.GetByID(s.GetContext(), "tenant-1")
	s.NoError(err)
	s.True(t.SubscriptionLocked)

	s.credit(100000)

	t, err = s.GetStores().TenantRepo.GetByID(s.GetContext(), "tenant-1")
	s.NoError(err)
	s.False(t.SubscriptionLocked)
	s.Nil(t.LockedReason)
	s.Nil(t.LockedAt)
}

func (s *WalletServiceSuite) TestGetBalanceCreatesWalletLazily() {
	resp, err := s.service.GetBalance(s.GetContext(), "tenant-1")
	s.NoError(err)
	s.Equal("tenant-1", resp.TenantID)
	s.Equal(int64(0), resp.BalanceMinor)
	s.Equal(int64(0), resp.MonthlyChargeMinor)
	s.Nil(resp.MonthsRemaining)
	s.True(resp.HasSufficientBalance)
}

func (s *WalletServiceSuite) TestGetBalanceReportsRunway() {
	seedPricing(s.GetContext(), s.GetStores().PricingRepo, "tenant-1", types.ServiceKindNewsWebsite, 0, 50000, 0, 0, 0)
	s.credit(125000)

	resp, err := s.service.GetBalance(s.GetContext(), "tenant-1")
	s.NoError(err)
	s.Equal(int64(50000), resp.MonthlyChargeMinor)
	s.NotNil(resp.MonthsRemaining)
	s.Equal("2.5", resp.MonthsRemaining.String())
	s.True(resp.HasSufficientBalance)
}

func (s *WalletServiceSuite) TestTopUp() {
	resp, err := s.service.TopUp(s.GetContext(), "tenant-1", &dto.TopUpWalletRequest{
		AmountMinor: 75000,
		ReferenceID: "payment-1",
	})
	s.NoError(err)
	s.Equal(int64(75000), resp.BalanceMinor)
	s.Equal(int64(75000), resp.AvailableBalanceMinor)
}

func (s *WalletServiceSuite) TestTopUpBulkAppliesDiscount() {
	// 500 rupees monthly flat fee with a 10% six-month tier
	seedPricing(s.GetContext(), s.GetStores().PricingRepo, "tenant-1", types.ServiceKindNewsWebsite, 0, 50000, 0, 10, 20)

	resp, err := s.service.TopUpBulk(s.GetContext(), "tenant-1", &dto.BulkTopUpRequest{
		Months:      6,
		ReferenceID: "payment-2",
	})
	s.NoError(err)
	s.Equal(int64(300000), resp.Quote.SubtotalMinor)
	s.Equal(10, resp.Quote.DiscountPercent)
	s.Equal(int64(30000), resp.Quote.DiscountAmountMinor)
	s.Equal(int64(270000), resp.CreditedMinor)
	s.Equal(int64(270000), resp.NewBalanceMinor)

	txns := s.GetStores().WalletRepo.(*testutil.InMemoryWalletStore).Transactions("tenant-1")
	s.Len(txns, 1)
	s.Equal(types.WalletTxReferenceTypeBulkTopup, txns[0].ReferenceType)
}

func (s *WalletServiceSuite) TestTopUpBulkWithoutPricing() {
	_, err := s.service.TopUpBulk(s.GetContext(), "tenant-1", &dto.BulkTopUpRequest{Months: 6})
	s.Error(err)
	s.True(ierr.IsPricingNotConfigured(err))
}

func (s *WalletServiceSuite) TestListTransactionsPaginated() {
	for i := 0; i < 5; i++ {
		s.credit(1000)
	}

	resp, err := s.service.ListTransactions(s.GetContext(), "tenant-1", &types.TransactionFilter{
		PageFilter: types.PageFilter{Page: 1, PageSize: 2},
	})
	s.NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(5, resp.Pagination.Total)

	// Newest first
	s.Equal(int64(5000), resp.Items[0].BalanceAfterMinor)
	s.Equal(int64(4000), resp.Items[1].BalanceAfterMinor)
}

func (s *WalletServiceSuite) TestListTransactionsTypeFilter() {
	s.credit(50000)
	_, err := s.service.Debit(s.GetContext(), &wallet.WalletOperation{
		TenantID:      "tenant-1",
		AmountMinor:   10000,
		ReferenceType: types.WalletTxReferenceTypeInvoice,
	})
	s.NoError(err)

	debitType := types.TransactionTypeDebit
	resp, err := s.service.ListTransactions(s.GetContext(), "tenant-1", &types.TransactionFilter{
		Type: &debitType,
	})
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.Equal(types.TransactionTypeDebit, resp.Items[0].Type)
}
