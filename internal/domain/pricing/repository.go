package pricing

import (
	"context"
	"time"
)

// Repository defines the interface for pricing catalog persistence
type Repository interface {
	Create(ctx context.Context, p *Pricing) error
	GetByID(ctx context.Context, id string) (*Pricing, error)

	// GetActive returns the row in effect for the service on the given date;
	// most-recent effective_from wins if more than one matches.
	GetActive(ctx context.Context, tenantID string, service string, asOf time.Time) (*Pricing, error)

	// ListActive returns every row in effect for the tenant on the given date
	ListActive(ctx context.Context, tenantID string, asOf time.Time) ([]*Pricing, error)

	// List returns the tenant's full pricing history, newest first
	List(ctx context.Context, tenantID string) ([]*Pricing, error)

	// Deactivate closes a row by stamping its effective_until. The row stays
	// in the table; pricing history is never overwritten.
	Deactivate(ctx context.Context, id string, until time.Time) error
}
