package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/domain/tenant"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/logger"
	"github.com/atshybrid/kaburlu-billing/internal/postgres"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

type tenantRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewTenantRepository creates a tenant repository backed by postgres
func NewTenantRepository(db *postgres.DB, logger *logger.Logger) tenant.Repository {
	return &tenantRepository{db: db, logger: logger}
}

const tenantColumns = `id, name, subscription_locked, locked_reason, locked_at,
	status, created_at, updated_at`

func (r *tenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO tenants (`+tenantColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Name, t.SubscriptionLocked, t.LockedReason, t.LockedAt,
		t.Status, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create tenant").
			WithReportableDetails(map[string]any{"tenant_id": t.ID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	q := r.db.GetQuerier(ctx)
	err := q.GetContext(ctx, &t, `
		SELECT `+tenantColumns+` FROM tenants
		WHERE id = $1 AND status = $2`,
		id, types.StatusPublished,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("tenant not found").
				WithReportableDetails(map[string]any{"tenant_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load tenant").
			Mark(ierr.ErrDatabase)
	}
	return &t, nil
}

func (r *tenantRepository) List(ctx context.Context) ([]*tenant.Tenant, error) {
	var tenants []*tenant.Tenant
	q := r.db.GetQuerier(ctx)
	err := q.SelectContext(ctx, &tenants, `
		SELECT `+tenantColumns+` FROM tenants
		WHERE status = $1
		ORDER BY created_at`,
		types.StatusPublished,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list tenants").
			Mark(ierr.ErrDatabase)
	}
	return tenants, nil
}

func (r *tenantRepository) UpdateLockState(ctx context.Context, id string, locked bool, reason *string, lockedAt *time.Time) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE tenants
		SET subscription_locked = $2, locked_reason = $3, locked_at = $4, updated_at = $5
		WHERE id = $1`,
		id, locked, reason, lockedAt, time.Now().UTC(),
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update tenant lock state").
			WithReportableDetails(map[string]any{"tenant_id": id}).
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("tenant not found").
			WithReportableDetails(map[string]any{"tenant_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
