package service

import (
	"testing"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/domain/wallet"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/testutil"
	"github.com/atshybrid/kaburlu-billing/internal/types"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service       InvoiceService
	walletService WalletService
	period        types.BillingPeriod
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	s.service = NewInvoiceService(params)
	s.walletService = NewWalletService(params)
	s.period = types.MonthPeriodOf(time.Now())
	seedTenant(s.GetContext(), s.GetStores().TenantRepo, "tenant-1", "Tenant One")
}

func (s *InvoiceServiceSuite) seedMonthlyFee(feeMinor int64) {
	seedPricing(s.GetContext(), s.GetStores().PricingRepo, "tenant-1", types.ServiceKindNewsWebsite, 0, feeMinor, 0, 0, 0)
}

func (s *InvoiceServiceSuite) topUp(amountMinor int64) {
	_, err := s.walletService.Credit(s.GetContext(), &wallet.WalletOperation{
		TenantID:    "tenant-1",
		AmountMinor: amountMinor,
	})
	s.NoError(err)
}

func (s *InvoiceServiceSuite) TestGenerateAndSettleInvoice() {
	s.seedMonthlyFee(50000)
	s.topUp(80000)

	resp, err := s.service.GenerateMonthlyInvoice(s.GetContext(), "tenant-1", s.period)
	s.NoError(err)
	s.False(resp.NoCharge)
	s.NotNil(resp.Invoice)

	inv := resp.Invoice
	s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)
	s.NotNil(inv.PaidAt)
	s.Equal(types.InvoiceKindSubscription, inv.Kind)
	s.Equal(int64(50000), inv.TotalAmountMinor)
	s.NotEmpty(inv.InvoiceNumber)

	// The total equals the sum of the line items
	var sum int64
	for _, li := range inv.LineItems {
		sum += li.AmountMinor
	}
	s.Equal(inv.TotalAmountMinor, sum)

	// The wallet was debited exactly once for the invoice total
	w, err := s.GetStores().WalletRepo.GetByTenantID(s.GetContext(), "tenant-1")
	s.NoError(err)
	s.Equal(int64(30000), w.BalanceMinor)

	// The period's usage row now carries the invoice link
	u, err := s.GetStores().UsageRepo.GetByPeriod(s.GetContext(), "tenant-1", s.period.Start)
	s.NoError(err)
	s.True(u.IsBilled())
	s.Equal(inv.ID, *u.InvoiceID)
}

func (s *InvoiceServiceSuite) TestGenerateNoChargeProducesNoInvoice() {
	resp, err := s.service.GenerateMonthlyInvoice(s.GetContext(), "tenant-1", s.period)
	s.NoError(err)
	s.True(resp.NoCharge)
	s.Nil(resp.Invoice)

	u, err := s.GetStores().UsageRepo.GetByPeriod(s.GetContext(), "tenant-1", s.period.Start)
	s.NoError(err)
	s.False(u.IsBilled())
}

func (s *InvoiceServiceSuite) TestInsufficientBalanceLocksTenant() {
	s.seedMonthlyFee(50000)
	s.topUp(20000)

	resp, err := s.service.GenerateMonthlyInvoice(s.GetContext(), "tenant-1", s.period)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPastDue, resp.Invoice.InvoiceStatus)
	s.Nil(resp.Invoice.PaidAt)

	// The invoice survives as PAST_DUE and the tenant is locked with the
	// shortfall amount in the reason
	t, err := s.GetStores().TenantRepo.GetByID(s.GetContext(), "tenant-1")
	s.NoError(err)
	s.True(t.SubscriptionLocked)
	s.NotNil(t.LockedReason)
	s.Equal("insufficient balance for monthly charges: required ₹500.00", *t.LockedReason)
	s.NotNil(t.LockedAt)

	// The failed collection left the balance untouched
	w, err := s.GetStores().WalletRepo.GetByTenantID(s.GetContext(), "tenant-1")
	s.NoError(err)
	s.Equal(int64(20000), w.BalanceMinor)
}

func (s *InvoiceServiceSuite) TestDuplicatePeriodRejected() {
	s.seedMonthlyFee(50000)
	s.topUp(80000)

	_, err := s.service.GenerateMonthlyInvoice(s.GetContext(), "tenant-1", s.period)
	s.NoError(err)

	_, err = s.service.GenerateMonthlyInvoice(s.GetContext(), "tenant-1", s.period)
	s.Error(err)
	s.True(ierr.Is(err, ierr.ErrDuplicateInvoicePeriod))

	// Still a single invoice for the period
	resp, err := s.service.ListInvoices(s.GetContext(), "tenant-1", nil)
	s.NoError(err)
	s.Equal(1, resp.Pagination.Total)
}

func (s *InvoiceServiceSuite) TestGenerateRejectsPartialPeriod() {
	midMonth := types.BillingPeriod{
		Start: s.period.Start.AddDate(0, 0, 10),
		End:   s.period.End,
	}
	_, err := s.service.GenerateMonthlyInvoice(s.GetContext(), "tenant-1", midMonth)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestGetInvoiceChecksOwnership() {
	s.seedMonthlyFee(50000)
	s.topUp(80000)
	seedTenant(s.GetContext(), s.GetStores().TenantRepo, "tenant-2", "Tenant Two")

	resp, err := s.service.GenerateMonthlyInvoice(s.GetContext(), "tenant-1", s.period)
	s.NoError(err)

	inv, err := s.service.GetInvoice(s.GetContext(), "tenant-1", resp.Invoice.ID)
	s.NoError(err)
	s.Equal(resp.Invoice.ID, inv.ID)

	_, err = s.service.GetInvoice(s.GetContext(), "tenant-2", resp.Invoice.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestListInvoicesStatusFilter() {
	s.seedMonthlyFee(50000)
	s.topUp(80000)

	_, err := s.service.GenerateMonthlyInvoice(s.GetContext(), "tenant-1", s.period)
	s.NoError(err)

	paid := types.InvoiceStatusPaid
	resp, err := s.service.ListInvoices(s.GetContext(), "tenant-1", &types.InvoiceFilter{Status: &paid})
	s.NoError(err)
	s.Len(resp.Items, 1)

	pastDue := types.InvoiceStatusPastDue
	resp, err = s.service.ListInvoices(s.GetContext(), "tenant-1", &types.InvoiceFilter{Status: &pastDue})
	s.NoError(err)
	s.Empty(resp.Items)
}

func (s *InvoiceServiceSuite) TestRepaymentUnlocksAndNextRunSettles() {
	s.seedMonthlyFee(50000)
	s.topUp(10000)

	// First attempt goes past due and locks the tenant
	first, err := s.service.GenerateMonthlyInvoice(s.GetContext(), "tenant-1", s.period)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPastDue, first.Invoice.InvoiceStatus)

	// A credit unlocks the tenant again
	_, err = s.walletService.Credit(s.GetContext(), &wallet.WalletOperation{
		TenantID:    "tenant-1",
		AmountMinor: 100000,
	})
	s.NoError(err)

	t, err := s.GetStores().TenantRepo.GetByID(s.GetContext(), "tenant-1")
	s.NoError(err)
	s.False(t.SubscriptionLocked)
}

func (s *InvoiceServiceSuite) TestListInvoicesValidatesFilter() {
	bogus := types.InvoiceStatus("BOGUS")
	_, err := s.service.ListInvoices(s.GetContext(), "tenant-1", &types.InvoiceFilter{Status: &bogus})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
