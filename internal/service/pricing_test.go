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

type PricingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PricingService
}

func TestPricingService(t *testing.T) {
	suite.Run(t, new(PricingServiceSuite))
}

func (s *PricingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPricingService(newTestServiceParams(&s.BaseServiceTestSuite))
	seedTenant(s.GetContext(), s.GetStores().TenantRepo, "tenant-1", "Tenant One")
}

func (s *PricingServiceSuite) TestSetPricingCreatesActiveRow() {
	p, err := s.service.SetPricing(s.GetContext(), "tenant-1", &dto.SetPricingRequest{
		Service:           types.ServiceKindEpaper,
		PricePerUnitMinor: 200,
		MinUnitsPerPeriod: 100,
	})
	s.NoError(err)
	s.True(p.IsActive)
	s.Nil(p.EffectiveUntil)
	s.Equal("tenant-1", p.TenantID)

	got, err := s.service.GetActivePricing(s.GetContext(), "tenant-1", types.ServiceKindEpaper, time.Now())
	s.NoError(err)
	s.Equal(p.ID, got.ID)
}

func (s *PricingServiceSuite) TestSetPricingUnknownTenant() {
	_, err := s.service.SetPricing(s.GetContext(), "tenant-missing", &dto.SetPricingRequest{
		Service: types.ServiceKindEpaper,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PricingServiceSuite) TestSetPricingVersionsKeepHistory() {
	first, err := s.service.SetPricing(s.GetContext(), "tenant-1", &dto.SetPricingRequest{
		Service:           types.ServiceKindEpaper,
		PricePerUnitMinor: 200,
	})
	s.NoError(err)

	second, err := s.service.SetPricing(s.GetContext(), "tenant-1", &dto.SetPricingRequest{
		Service:           types.ServiceKindEpaper,
		PricePerUnitMinor: 250,
	})
	s.NoError(err)
	s.NotEqual(first.ID, second.ID)

	// The old version survives, closed but never overwritten
	history, err := s.service.ListPricing(s.GetContext(), "tenant-1")
	s.NoError(err)
	s.Len(history, 2)

	closed, err := s.GetStores().PricingRepo.GetByID(s.GetContext(), first.ID)
	s.NoError(err)
	s.False(closed.IsActive)
	s.NotNil(closed.EffectiveUntil)
	s.Equal(int64(200), closed.PricePerUnitMinor)

	// Exactly one active row per service
	active, err := s.service.ListActivePricing(s.GetContext(), "tenant-1", time.Now())
	s.NoError(err)
	s.Len(active, 1)
	s.Equal(second.ID, active[0].ID)
}

func (s *PricingServiceSuite) TestSetPricingInvalidatesCache() {
	_, err := s.service.SetPricing(s.GetContext(), "tenant-1", &dto.SetPricingRequest{
		Service:           types.ServiceKindEpaper,
		PricePerUnitMinor: 200,
	})
	s.NoError(err)

	// Prime the cache
	cached, err := s.service.GetActivePricing(s.GetContext(), "tenant-1", types.ServiceKindEpaper, time.Now())
	s.NoError(err)
	s.Equal(int64(200), cached.PricePerUnitMinor)

	_, err = s.service.SetPricing(s.GetContext(), "tenant-1", &dto.SetPricingRequest{
		Service:           types.ServiceKindEpaper,
		PricePerUnitMinor: 300,
	})
	s.NoError(err)

	fresh, err := s.service.GetActivePricing(s.GetContext(), "tenant-1", types.ServiceKindEpaper, time.Now())
	s.NoError(err)
	s.Equal(int64(300), fresh.PricePerUnitMinor)
}

func (s *PricingServiceSuite) TestGetActivePricingNotConfigured() {
	_, err := s.service.GetActivePricing(s.GetContext(), "tenant-1", types.ServiceKindEpaper, time.Now())
	s.Error(err)
	s.True(ierr.IsPricingNotConfigured(err))
}

func (s *PricingServiceSuite) TestUpdatePricingIsNewVersion() {
	first, err := s.service.SetPricing(s.GetContext(), "tenant-1", &dto.SetPricingRequest{
		Service:           types.ServiceKindEpaper,
		PricePerUnitMinor: 200,
	})
	s.NoError(err)

	updated, err := s.service.UpdatePricing(s.GetContext(), "tenant-1", first.ID, &dto.SetPricingRequest{
		Service:           types.ServiceKindEpaper,
		PricePerUnitMinor: 225,
	})
	s.NoError(err)
	s.NotEqual(first.ID, updated.ID)
	s.Equal(types.ServiceKindEpaper, updated.Service)
	s.Equal(int64(225), updated.PricePerUnitMinor)
}

func (s *PricingServiceSuite) TestUpdatePricingChecksOwnership() {
	seedTenant(s.GetContext(), s.GetStores().TenantRepo, "tenant-2", "Tenant Two")
	p, err := s.service.SetPricing(s.GetContext(), "tenant-1", &dto.SetPricingRequest{
		Service:           types.ServiceKindEpaper,
		PricePerUnitMinor: 200,
	})
	s.NoError(err)

	_, err = s.service.UpdatePricing(s.GetContext(), "tenant-2", p.ID, &dto.SetPricingRequest{
		Service: types.ServiceKindEpaper,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PricingServiceSuite) TestDeletePricingDeactivates() {
	p, err := s.service.SetPricing(s.GetContext(), "tenant-1", &dto.SetPricingRequest{
		Service:           types.ServiceKindEpaper,
		PricePerUnitMinor: 200,
	})
	s.NoError(err)

	s.NoError(s.service.DeletePricing(s.GetContext(), "tenant-1", p.ID))

	_, err = s.service.GetActivePricing(s.GetContext(), "tenant-1", types.ServiceKindEpaper, time.Now())
	s.Error(err)
	s.True(ierr.IsPricingNotConfigured(err))

	// The row stays in history
	history, err := s.service.ListPricing(s.GetContext(), "tenant-1")
	s.NoError(err)
	s.Len(history, 1)
}

func (s *PricingServiceSuite) TestListServicesMatrix() {
	_, err := s.service.SetPricing(s.GetContext(), "tenant-1", &dto.SetPricingRequest{
		Service:           types.ServiceKindEpaper,
		PricePerUnitMinor: 200,
	})
	s.NoError(err)

	services, err := s.service.ListServices(s.GetContext(), "tenant-1")
	s.NoError(err)
	s.Len(services, len(types.AllServiceKinds()))

	byService := make(map[types.ServiceKind]*dto.ServiceStatusResponse)
	for _, svc := range services {
		byService[svc.Service] = svc
	}
	s.True(byService[types.ServiceKindEpaper].Active)
	s.True(byService[types.ServiceKindEpaper].Metered)
	s.NotNil(byService[types.ServiceKindEpaper].Pricing)
	s.False(byService[types.ServiceKindNewsWebsite].Active)
	s.Nil(byService[types.ServiceKindNewsWebsite].Pricing)
}

func (s *PricingServiceSuite) TestToggleServiceOffAndBackOn() {
	_, err := s.service.SetPricing(s.GetContext(), "tenant-1", &dto.SetPricingRequest{
		Service:         types.ServiceKindNewsWebsite,
		MonthlyFeeMinor: 50000,
	})
	s.NoError(err)

	s.NoError(s.service.ToggleService(s.GetContext(), "tenant-1", types.ServiceKindNewsWebsite, &dto.ToggleServiceRequest{Active: false}))
	_, err = s.service.GetActivePricing(s.GetContext(), "tenant-1", types.ServiceKindNewsWebsite, time.Now())
	s.True(ierr.IsPricingNotConfigured(err))

	// Reactivation without pricing reuses the historical version
	s.NoError(s.service.ToggleService(s.GetContext(), "tenant-1", types.ServiceKindNewsWebsite, &dto.ToggleServiceRequest{Active: true}))
	p, err := s.service.GetActivePricing(s.GetContext(), "tenant-1", types.ServiceKindNewsWebsite, time.Now())
	s.NoError(err)
	s.Equal(int64(50000), p.MonthlyFeeMinor)
}

func (s *PricingServiceSuite) TestToggleServiceOnWithoutHistoryNeedsPricing() {
	err := s.service.ToggleService(s.GetContext(), "tenant-1", types.ServiceKindPrintService, &dto.ToggleServiceRequest{Active: true})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	err = s.service.ToggleService(s.GetContext(), "tenant-1", types.ServiceKindPrintService, &dto.ToggleServiceRequest{
		Active:  true,
		Pricing: &dto.SetPricingRequest{Service: types.ServiceKindPrintService, MonthlyFeeMinor: 30000},
	})
	s.NoError(err)

	p, err := s.service.GetActivePricing(s.GetContext(), "tenant-1", types.ServiceKindPrintService, time.Now())
	s.NoError(err)
	s.Equal(int64(30000), p.MonthlyFeeMinor)
}

func (s *PricingServiceSuite) TestToggleServiceIdempotent() {
	// Disabling an inactive service and enabling an active one are no-ops
	s.NoError(s.service.ToggleService(s.GetContext(), "tenant-1", types.ServiceKindEpaper, &dto.ToggleServiceRequest{Active: false}))

	_, err := s.service.SetPricing(s.GetContext(), "tenant-1", &dto.SetPricingRequest{
		Service:           types.ServiceKindEpaper,
		PricePerUnitMinor: 200,
	})
	s.NoError(err)
	s.NoError(s.service.ToggleService(s.GetContext(), "tenant-1", types.ServiceKindEpaper, &dto.ToggleServiceRequest{Active: true}))

	history, err := s.service.ListPricing(s.GetContext(), "tenant-1")
	s.NoError(err)
	s.Len(history, 1)
}

func (s *PricingServiceSuite) TestSetPricingRejectsInvalidDiscount() {
	_, err := s.service.SetPricing(s.GetContext(), "tenant-1", &dto.SetPricingRequest{
		Service:               types.ServiceKindEpaper,
		Discount6MonthPercent: 120,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
