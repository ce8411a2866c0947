package service

import (
	"context"
	"time"
)

// AccessLockService maintains the tenant subscription lock flag. It only
// flips the flag and its reason; enforcement is the responsibility of every
// tenant-facing capability that consults it.
type AccessLockService interface {
	// Lock is idempotent: relocking overwrites the reason and timestamp
	Lock(ctx context.Context, tenantID string, reason string) error
	Unlock(ctx context.Context, tenantID string) error
}

type accessLockService struct {
	ServiceParams
}

func NewAccessLockService(params ServiceParams) AccessLockService {
	return &accessLockService{ServiceParams: params}
}

func (s *accessLockService) Lock(ctx context.Context, tenantID string, reason string) error {
	if _, err := s.TenantRepo.GetByID(ctx, tenantID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.TenantRepo.UpdateLockState(ctx, tenantID, true, &reason, &now); err != nil {
		return err
	}
	s.Logger.Warnw("tenant locked", "tenant_id", tenantID, "reason", reason)
	return nil
}

func (s *accessLockService) Unlock(ctx context.Context, tenantID string) error {
	if _, err := s.TenantRepo.GetByID(ctx, tenantID); err != nil {
		return err
	}

	if err := s.TenantRepo.UpdateLockState(ctx, tenantID, false, nil, nil); err != nil {
		return err
	}
	s.Logger.Infow("tenant unlocked", "tenant_id", tenantID)
	return nil
}
