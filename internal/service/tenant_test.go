package service

import (
	"strings"
	"testing"

	"github.com/atshybrid/kaburlu-billing/internal/api/dto"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type TenantServiceSuite struct {
	testutil.BaseServiceTestSuite
	service TenantService
}

func TestTenantService(t *testing.T) {
	suite.Run(t, new(TenantServiceSuite))
}

func (s *TenantServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewTenantService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *TenantServiceSuite) TestCreateGeneratesID() {
	t, err := s.service.Create(s.GetContext(), &dto.CreateTenantRequest{Name: "Daily Herald"})
	s.NoError(err)
	s.True(strings.HasPrefix(t.ID, "tenant_"))
	s.Equal("Daily Herald", t.Name)
	s.False(t.SubscriptionLocked)
}

func (s *TenantServiceSuite) TestCreateWithExplicitID() {
	t, err := s.service.Create(s.GetContext(), &dto.CreateTenantRequest{ID: "tenant-42", Name: "Morning Post"})
	s.NoError(err)
	s.Equal("tenant-42", t.ID)

	got, err := s.service.GetByID(s.GetContext(), "tenant-42")
	s.NoError(err)
	s.Equal(t.Name, got.Name)
}

func (s *TenantServiceSuite) TestCreateRequiresName() {
	_, err := s.service.Create(s.GetContext(), &dto.CreateTenantRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TenantServiceSuite) TestCreateDuplicateID() {
	_, err := s.service.Create(s.GetContext(), &dto.CreateTenantRequest{ID: "tenant-42", Name: "Morning Post"})
	s.NoError(err)
	_, err = s.service.Create(s.GetContext(), &dto.CreateTenantRequest{ID: "tenant-42", Name: "Morning Post"})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *TenantServiceSuite) TestList() {
	_, err := s.service.Create(s.GetContext(), &dto.CreateTenantRequest{Name: "Daily Herald"})
	s.NoError(err)
	_, err = s.service.Create(s.GetContext(), &dto.CreateTenantRequest{Name: "Morning Post"})
	s.NoError(err)

	tenants, err := s.service.List(s.GetContext())
	s.NoError(err)
	s.Len(tenants, 2)
}
