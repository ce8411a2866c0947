package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/domain/usage"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/logger"
	"github.com/atshybrid/kaburlu-billing/internal/postgres"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

type usageRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewUsageRepository creates a monthly usage repository backed by postgres
func NewUsageRepository(db *postgres.DB, logger *logger.Logger) usage.Repository {
	return &usageRepository{db: db, logger: logger}
}

const usageColumns = `id, period_start, period_end, epaper_pages, custom_units,
	epaper_charge_minor, website_charge_minor, print_charge_minor,
	custom_charge_minor, other_charges_minor, total_charge_minor, invoice_id,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *usageRepository) Create(ctx context.Context, u *usage.MonthlyUsage) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO tenant_usage_monthly (`+usageColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		u.ID, u.PeriodStart, u.PeriodEnd, u.EpaperPages, u.CustomUnits,
		u.EpaperChargeMinor, u.WebsiteChargeMinor, u.PrintChargeMinor,
		u.CustomChargeMinor, u.OtherChargesMinor, u.TotalChargeMinor, u.InvoiceID,
		u.TenantID, u.Status, u.CreatedAt, u.UpdatedAt, u.CreatedBy, u.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create monthly usage row").
			WithReportableDetails(map[string]any{
				"tenant_id":    u.TenantID,
				"period_start": u.PeriodStart,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *usageRepository) GetByPeriod(ctx context.Context, tenantID string, periodStart time.Time) (*usage.MonthlyUsage, error) {
	return r.getByPeriod(ctx, tenantID, periodStart, false)
}

func (r *usageRepository) GetByPeriodForUpdate(ctx context.Context, tenantID string, periodStart time.Time) (*usage.MonthlyUsage, error) {
	return r.getByPeriod(ctx, tenantID, periodStart, true)
}

func (r *usageRepository) getByPeriod(ctx context.Context, tenantID string, periodStart time.Time, forUpdate bool) (*usage.MonthlyUsage, error) {
	query := `SELECT ` + usageColumns + ` FROM tenant_usage_monthly
		WHERE tenant_id = $1 AND period_start = $2 AND status = $3`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var u usage.MonthlyUsage
	q := r.db.GetQuerier(ctx)
	err := q.GetContext(ctx, &u, query, tenantID, periodStart, types.StatusPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("monthly usage not found").
				WithReportableDetails(map[string]any{
					"tenant_id":    tenantID,
					"period_start": periodStart,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load monthly usage").
			Mark(ierr.ErrDatabase)
	}
	return &u, nil
}

func (r *usageRepository) Update(ctx context.Context, u *usage.MonthlyUsage) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE tenant_usage_monthly
		SET epaper_pages = $2, custom_units = $3,
			epaper_charge_minor = $4, website_charge_minor = $5,
			print_charge_minor = $6, custom_charge_minor = $7,
			other_charges_minor = $8, total_charge_minor = $9,
			updated_at = $10
		WHERE id = $1`,
		u.ID, u.EpaperPages, u.CustomUnits,
		u.EpaperChargeMinor, u.WebsiteChargeMinor,
		u.PrintChargeMinor, u.CustomChargeMinor,
		u.OtherChargesMinor, u.TotalChargeMinor,
		time.Now().UTC(),
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update monthly usage").
			WithReportableDetails(map[string]any{"usage_id": u.ID}).
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("monthly usage not found").
			WithReportableDetails(map[string]any{"usage_id": u.ID}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *usageRepository) LinkInvoice(ctx context.Context, id string, invoiceID string) (bool, error) {
	q := r.db.GetQuerier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE tenant_usage_monthly
		SET invoice_id = $2, updated_at = $3
		WHERE id = $1 AND invoice_id IS NULL`,
		id, invoiceID, time.Now().UTC(),
	)
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to link invoice to usage period").
			WithReportableDetails(map[string]any{
				"usage_id":   id,
				"invoice_id": invoiceID,
			}).
			Mark(ierr.ErrDatabase)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to link invoice to usage period").
			Mark(ierr.ErrDatabase)
	}
	return n == 1, nil
}
