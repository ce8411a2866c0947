package service

import (
	"testing"

	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type AccessLockServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AccessLockService
}

func TestAccessLockService(t *testing.T) {
	suite.Run(t, new(AccessLockServiceSuite))
}

func (s *AccessLockServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewAccessLockService(newTestServiceParams(&s.BaseServiceTestSuite))
	seedTenant(s.GetContext(), s.GetStores().TenantRepo, "tenant-1", "Tenant One")
}

func (s *AccessLockServiceSuite) TestLockSetsReasonAndTimestamp() {
	s.NoError(s.service.Lock(s.GetContext(), "tenant-1", "manual suspension"))

	t, err := s.GetStores().TenantRepo.GetByID(s.GetContext(), "tenant-1")
	s.NoError(err)
	s.True(t.SubscriptionLocked)
	s.Equal("manual suspension", *t.LockedReason)
	s.NotNil(t.LockedAt)
}

func (s *AccessLockServiceSuite) TestRelockOverwritesReason() {
	s.NoError(s.service.Lock(s.GetContext(), "tenant-1", "first reason"))
	s.NoError(s.service.Lock(s.GetContext(), "tenant-1", "second reason"))

	t, err := s.GetStores().TenantRepo.GetByID(s.GetContext(), "tenant-1")
	s.NoError(err)
	s.True(t.SubscriptionLocked)
	s.Equal("second reason", *t.LockedReason)
}

func (s *AccessLockServiceSuite) TestUnlockClearsLockState() {
	s.NoError(s.service.Lock(s.GetContext(), "tenant-1", "manual suspension"))
	s.NoError(s.service.Unlock(s.GetContext(), "tenant-1"))

	t, err := s.GetStores().TenantRepo.GetByID(s.GetContext(), "tenant-1")
	s.NoError(err)
	s.False(t.SubscriptionLocked)
	s.Nil(t.LockedReason)
	s.Nil(t.LockedAt)
}

func (s *AccessLockServiceSuite) TestUnlockWithoutLockIsNoOp() {
	s.NoError(s.service.Unlock(s.GetContext(), "tenant-1"))

	t, err := s.GetStores().TenantRepo.GetByID(s.GetContext(), "tenant-1")
	s.NoError(err)
	s.False(t.SubscriptionLocked)
}

func (s *AccessLockServiceSuite) TestLockUnknownTenant() {
	err := s.service.Lock(s.GetContext(), "tenant-missing", "whatever")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
