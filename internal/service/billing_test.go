package service

import (
	"testing"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/api/dto"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/testutil"
	"github.com/atshybrid/kaburlu-billing/internal/types"
	"github.com/stretchr/testify/suite"
)

type BillingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service BillingService
	period  types.BillingPeriod
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceSuite))
}

func (s *BillingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewBillingService(newTestServiceParams(&s.BaseServiceTestSuite))
	s.period = types.MonthPeriodOf(time.Now())
	seedTenant(s.GetContext(), s.GetStores().TenantRepo, "tenant-1", "Tenant One")
}

func (s *BillingServiceSuite) TestRecordUsageAccumulates() {
	_, err := s.service.RecordUsage(s.GetContext(), "tenant-1", &dto.RecordUsageRequest{
		Service: types.ServiceKindEpaper,
		Units:   40,
	})
	s.NoError(err)
	u, err := s.service.RecordUsage(s.GetContext(), "tenant-1", &dto.RecordUsageRequest{
		Service: types.ServiceKindEpaper,
		Units:   20,
	})
	s.NoError(err)
	s.Equal(int64(60), u.EpaperPages)
	s.Equal(int64(0), u.CustomUnits)
}

func (s *BillingServiceSuite) TestRecordUsageUnsupportedService() {
	_, err := s.service.RecordUsage(s.GetContext(), "tenant-1", &dto.RecordUsageRequest{
		Service: types.ServiceKindNewsWebsite,
		Units:   1,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *BillingServiceSuite) TestRecordUsageUnknownTenant() {
	_, err := s.service.RecordUsage(s.GetContext(), "tenant-missing", &dto.RecordUsageRequest{
		Service: types.ServiceKindEpaper,
		Units:   1,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *BillingServiceSuite) TestMeteredChargeWithMinimumFloor() {
	// 2 rupees per page with a 100 page contracted minimum
	seedPricing(s.GetContext(), s.GetStores().PricingRepo, "tenant-1", types.ServiceKindEpaper, 200, 0, 100, 0, 0)

	_, err := s.service.RecordUsage(s.GetContext(), "tenant-1", &dto.RecordUsageRequest{
		Service: types.ServiceKindEpaper,
		Units:   40,
	})
	s.NoError(err)

	resp, err := s.service.CalculateMonthlyCharge(s.GetContext(), "tenant-1", s.period)
	s.NoError(err)
	s.Equal(int64(20000), resp.TotalChargeMinor)
	s.Len(resp.Lines, 1)
	s.Equal(int64(40), resp.Lines[0].Units)
	s.Equal(int64(100), resp.Lines[0].BilledUnits)
}

func (s *BillingServiceSuite) TestMeteredChargeAboveMinimum() {
	seedPricing(s.GetContext(), s.GetStores().PricingRepo, "tenant-1", types.ServiceKindEpaper, 200, 0, 100, 0, 0)

	_, err := s.service.RecordUsage(s.GetContext(), "tenant-1", &dto.RecordUsageRequest{
		Service: types.ServiceKindEpaper,
		Units:   150,
	})
	s.NoError(err)

	resp, err := s.service.CalculateMonthlyCharge(s.GetContext(), "tenant-1", s.period)
	s.NoError(err)
	s.Equal(int64(30000), resp.TotalChargeMinor)
	s.Equal(int64(150), resp.Lines[0].BilledUnits)
}

func (s *BillingServiceSuite) TestUsageWithoutPricingFails() {
	_, err := s.service.RecordUsage(s.GetContext(), "tenant-1", &dto.RecordUsageRequest{
		Service: types.ServiceKindEpaper,
		Units:   10,
	})
	s.NoError(err)

	_, err = s.service.CalculateMonthlyCharge(s.GetContext(), "tenant-1", s.period)
	s.Error(err)
	s.True(ierr.IsPricingNotConfigured(err))
}

func (s *BillingServiceSuite) TestFlatFeeAndCustomCharges() {
	seedPricing(s.GetContext(), s.GetStores().PricingRepo, "tenant-1", types.ServiceKindNewsWebsite, 0, 50000, 0, 0, 0)
	seedPricing(s.GetContext(), s.GetStores().PricingRepo, "tenant-1", types.ServiceKindPrintService, 0, 30000, 0, 0, 0)
	seedPricing(s.GetContext(), s.GetStores().PricingRepo, "tenant-1", types.ServiceKindCustomService, 1000, 10000, 0, 0, 0)

	_, err := s.service.RecordUsage(s.GetContext(), "tenant-1", &dto.RecordUsageRequest{
		Service: types.ServiceKindCustomService,
		Units:   5,
	})
	s.NoError(err)
	_, err = s.service.RecordOtherCharge(s.GetContext(), "tenant-1", &dto.RecordOtherChargeRequest{
		AmountMinor: 2500,
		Description: "SMS bundle",
	})
	s.NoError(err)

	resp, err := s.service.CalculateMonthlyCharge(s.GetContext(), "tenant-1", s.period)
	s.NoError(err)

	// website 500 + print 300 + custom (100 + 5×10) + other 25
	s.Equal(int64(50000+30000+15000+2500), resp.TotalChargeMinor)
	s.Len(resp.Lines, 4)
	s.Equal(resp.TotalChargeMinor*int64(s.GetConfig().Billing.MinimumAdvanceMonths), resp.RequiredBalanceMinor)
}

func (s *BillingServiceSuite) TestChargeComputationIsIdempotent() {
	seedPricing(s.GetContext(), s.GetStores().PricingRepo, "tenant-1", types.ServiceKindNewsWebsite, 0, 50000, 0, 0, 0)

	first, err := s.service.CalculateMonthlyCharge(s.GetContext(), "tenant-1", s.period)
	s.NoError(err)
	second, err := s.service.CalculateMonthlyCharge(s.GetContext(), "tenant-1", s.period)
	s.NoError(err)
	s.Equal(first.TotalChargeMinor, second.TotalChargeMinor)
	s.Equal(first.Lines, second.Lines)
}

func (s *BillingServiceSuite) TestZeroChargeWhenNothingConfigured() {
	resp, err := s.service.CalculateMonthlyCharge(s.GetContext(), "tenant-1", s.period)
	s.NoError(err)
	s.Equal(int64(0), resp.TotalChargeMinor)
	s.Empty(resp.Lines)
}

func (s *BillingServiceSuite) TestBulkDiscountTiers() {
	seedPricing(s.GetContext(), s.GetStores().PricingRepo, "tenant-1", types.ServiceKindNewsWebsite, 0, 50000, 0, 10, 20)

	cases := []struct {
		months          int
		discountPercent int
		totalMinor      int64
	}{
		{1, 0, 50000},
		{5, 0, 250000},
		{6, 10, 270000},
		{11, 10, 495000},
		{12, 20, 480000},
		{24, 20, 960000},
	}
	for _, tc := range cases {
		resp, err := s.service.CalculateBulkDiscount(s.GetContext(), "tenant-1", tc.months)
		s.NoError(err)
		s.Equal(tc.discountPercent, resp.DiscountPercent, "months=%d", tc.months)
		s.Equal(tc.totalMinor, resp.TotalMinor, "months=%d", tc.months)
		s.Equal(resp.SubtotalMinor-resp.DiscountAmountMinor, resp.TotalMinor)
	}
}

func (s *BillingServiceSuite) TestBulkDiscountUsesBestConfiguredTier() {
	seedPricing(s.GetContext(), s.GetStores().PricingRepo, "tenant-1", types.ServiceKindNewsWebsite, 0, 50000, 0, 5, 10)
	seedPricing(s.GetContext(), s.GetStores().PricingRepo, "tenant-1", types.ServiceKindPrintService, 0, 30000, 0, 8, 15)

	resp, err := s.service.CalculateBulkDiscount(s.GetContext(), "tenant-1", 12)
	s.NoError(err)
	s.Equal(15, resp.DiscountPercent)
}

func (s *BillingServiceSuite) TestBulkDiscountRoundsHalfUp() {
	// 3% of 10050 minor units is 301.5, rounding up to 302
	seedPricing(s.GetContext(), s.GetStores().PricingRepo, "tenant-1", types.ServiceKindNewsWebsite, 0, 1675, 0, 3, 0)

	resp, err := s.service.CalculateBulkDiscount(s.GetContext(), "tenant-1", 6)
	s.NoError(err)
	s.Equal(int64(10050), resp.SubtotalMinor)
	s.Equal(int64(302), resp.DiscountAmountMinor)
	s.Equal(int64(9748), resp.TotalMinor)
}

func (s *BillingServiceSuite) TestBulkDiscountWithoutPricing() {
	_, err := s.service.CalculateBulkDiscount(s.GetContext(), "tenant-1", 6)
	s.Error(err)
	s.True(ierr.IsPricingNotConfigured(err))
}

func (s *BillingServiceSuite) TestBulkDiscountRejectsNonPositiveMonths() {
	_, err := s.service.CalculateBulkDiscount(s.GetContext(), "tenant-1", 0)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *BillingServiceSuite) TestMonthsOfRunway() {
	s.Nil(MonthsOfRunway(100000, 0))

	months := MonthsOfRunway(125000, 50000)
	s.NotNil(months)
	s.Equal("2.5", months.String())

	months = MonthsOfRunway(0, 50000)
	s.NotNil(months)
	s.True(months.IsZero())
}

func (s *BillingServiceSuite) TestClassifyRunway() {
	half := func(v float64) types.BalanceHealth {
		m := MonthsOfRunway(int64(v*100), 100)
		return types.ClassifyRunway(m)
	}
	s.Equal(types.BalanceHealthHealthy, types.ClassifyRunway(nil))
	s.Equal(types.BalanceHealthHealthy, half(2.5))
	s.Equal(types.BalanceHealthLow, half(2.4))
	s.Equal(types.BalanceHealthLow, half(1.5))
	s.Equal(types.BalanceHealthCritical, half(1.4))
	s.Equal(types.BalanceHealthCritical, half(1.0))
	s.Equal(types.BalanceHealthInsufficient, half(0.9))
}
