package tenant

import (
	"context"
	"time"
)

// Repository defines the interface for tenant persistence
type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)

	// List returns all live tenants, the iteration set for scheduled jobs
	List(ctx context.Context) ([]*Tenant, error)

	// UpdateLockState flips the subscription lock fields atomically
	UpdateLockState(ctx context.Context, id string, locked bool, reason *string, lockedAt *time.Time) error
}
