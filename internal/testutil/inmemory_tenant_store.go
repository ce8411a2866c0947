package testutil

import (
	"context"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/domain/tenant"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// InMemoryTenantStore implements tenant.Repository
type InMemoryTenantStore struct {
	*InMemoryStore[*tenant.Tenant]
}

func NewInMemoryTenantStore() *InMemoryTenantStore {
	return &InMemoryTenantStore{
		InMemoryStore: NewInMemoryStore[*tenant.Tenant](),
	}
}

func (s *InMemoryTenantStore) Create(ctx context.Context, t *tenant.Tenant) error {
	if err := s.InMemoryStore.Create(ctx, t.ID, t); err != nil {
		return ierr.NewError("tenant already exists").
			WithReportableDetails(map[string]any{"tenant_id": t.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryTenantStore) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || t.Status != types.StatusPublished {
		return nil, ierr.NewError("tenant not found").
			WithReportableDetails(map[string]any{"tenant_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return t, nil
}

func (s *InMemoryTenantStore) List(ctx context.Context) ([]*tenant.Tenant, error) {
	return s.InMemoryStore.List(ctx, nil, func(_ context.Context, t *tenant.Tenant, _ interface{}) bool {
		return t.Status == types.StatusPublished
	}, func(i, j *tenant.Tenant) bool {
		return i.CreatedAt.Before(j.CreatedAt)
	})
}

func (s *InMemoryTenantStore) UpdateLockState(ctx context.Context, id string, locked bool, reason *string, lockedAt *time.Time) error {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	t.SubscriptionLocked = locked
	t.LockedReason = reason
	t.LockedAt = lockedAt
	return nil
}
