package service

import (
	"context"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/api/dto"
	"github.com/atshybrid/kaburlu-billing/internal/domain/tenant"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// TenantService is the minimal registry view of tenants the billing engine
// needs: creation, lookup, and the iteration set for the scheduled jobs.
type TenantService interface {
	Create(ctx context.Context, req *dto.CreateTenantRequest) (*tenant.Tenant, error)
	GetByID(ctx context.Context, id string) (*tenant.Tenant, error)
	List(ctx context.Context) ([]*tenant.Tenant, error)
}

type tenantService struct {
	ServiceParams
}

func NewTenantService(params ServiceParams) TenantService {
	return &tenantService{ServiceParams: params}
}

func (s *tenantService) Create(ctx context.Context, req *dto.CreateTenantRequest) (*tenant.Tenant, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := req.ID
	if id == "" {
		id = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TENANT)
	}

	now := time.Now().UTC()
	t := &tenant.Tenant{
		ID:        id,
		Name:      req.Name,
		Status:    types.StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if err := s.TenantRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.Logger.Infow("tenant created", "tenant_id", t.ID, "name", t.Name)
	return t, nil
}

func (s *tenantService) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	return s.TenantRepo.GetByID(ctx, id)
}

func (s *tenantService) List(ctx context.Context) ([]*tenant.Tenant, error) {
	return s.TenantRepo.List(ctx)
}
