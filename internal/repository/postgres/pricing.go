package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/domain/pricing"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/logger"
	"github.com/atshybrid/kaburlu-billing/internal/postgres"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

type pricingRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewPricingRepository creates a pricing repository backed by postgres
func NewPricingRepository(db *postgres.DB, logger *logger.Logger) pricing.Repository {
	return &pricingRepository{db: db, logger: logger}
}

const pricingColumns = `id, service, price_per_unit_minor, monthly_fee_minor,
	min_units_per_period, discount_6_month_percent, discount_12_month_percent,
	is_active, effective_from, effective_until,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *pricingRepository) Create(ctx context.Context, p *pricing.Pricing) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO tenant_pricing (`+pricingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.Service, p.PricePerUnitMinor, p.MonthlyFeeMinor,
		p.MinUnitsPerPeriod, p.Discount6MonthPercent, p.Discount12MonthPercent,
		p.IsActive, p.EffectiveFrom, p.EffectiveUntil,
		p.TenantID, p.Status, p.CreatedAt, p.UpdatedAt, p.CreatedBy, p.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create pricing").
			WithReportableDetails(map[string]any{
				"tenant_id": p.TenantID,
				"service":   p.Service,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *pricingRepository) GetByID(ctx context.Context, id string) (*pricing.Pricing, error) {
	var p pricing.Pricing
	q := r.db.GetQuerier(ctx)
	err := q.GetContext(ctx, &p, `
		SELECT `+pricingColumns+` FROM tenant_pricing
		WHERE id = $1 AND status = $2`,
		id, types.StatusPublished,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("pricing not found").
				WithReportableDetails(map[string]any{"pricing_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load pricing").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *pricingRepository) GetActive(ctx context.Context, tenantID string, service string, asOf time.Time) (*pricing.Pricing, error) {
	var p pricing.Pricing
	q := r.db.GetQuerier(ctx)
	err := q.GetContext(ctx, &p, `
		SELECT `+pricingColumns+` FROM tenant_pricing
		WHERE tenant_id = $1 AND service = $2 AND status = $3
		  AND is_active = true
		  AND effective_from <= $4
		  AND (effective_until IS NULL OR effective_until >= $4)
		ORDER BY effective_from DESC
		LIMIT 1`,
		tenantID, service, types.StatusPublished, asOf,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("no active pricing for service").
				WithHint("No pricing is configured for this tenant and service").
				WithReportableDetails(map[string]any{
					"tenant_id": tenantID,
					"service":   service,
				}).
				Mark(ierr.ErrPricingNotConfigured)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load active pricing").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *pricingRepository) ListActive(ctx context.Context, tenantID string, asOf time.Time) ([]*pricing.Pricing, error) {
	var rows []*pricing.Pricing
	q := r.db.GetQuerier(ctx)
	err := q.SelectContext(ctx, &rows, `
		SELECT `+pricingColumns+` FROM tenant_pricing
		WHERE tenant_id = $1 AND status = $2
		  AND is_active = true
		  AND effective_from <= $3
		  AND (effective_until IS NULL OR effective_until >= $3)
		ORDER BY service, effective_from DESC`,
		tenantID, types.StatusPublished, asOf,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list active pricing").
			Mark(ierr.ErrDatabase)
	}
	return rows, nil
}

func (r *pricingRepository) List(ctx context.Context, tenantID string) ([]*pricing.Pricing, error) {
	var rows []*pricing.Pricing
	q := r.db.GetQuerier(ctx)
	err := q.SelectContext(ctx, &rows, `
		SELECT `+pricingColumns+` FROM tenant_pricing
		WHERE tenant_id = $1 AND status = $2
		ORDER BY effective_from DESC, created_at DESC`,
		tenantID, types.StatusPublished,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list pricing history").
			Mark(ierr.ErrDatabase)
	}
	return rows, nil
}

func (r *pricingRepository) Deactivate(ctx context.Context, id string, until time.Time) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE tenant_pricing
		SET is_active = false, effective_until = $2, updated_at = $3
		WHERE id = $1`,
		id, until, time.Now().UTC(),
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to deactivate pricing").
			WithReportableDetails(map[string]any{"pricing_id": id}).
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("pricing not found").
			WithReportableDetails(map[string]any{"pricing_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
