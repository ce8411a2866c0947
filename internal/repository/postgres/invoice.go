package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/domain/invoice"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/logger"
	"github.com/atshybrid/kaburlu-billing/internal/postgres"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

type invoiceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewInvoiceRepository creates an invoice repository backed by postgres
func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

const invoiceColumns = `id, invoice_number, kind, invoice_status, currency,
	period_start, period_end, total_amount_minor, description, paid_at,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

const lineItemColumns = `id, invoice_id, component, description, quantity,
	unit_amount_minor, amount_minor,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *invoiceRepository) CreateWithLineItems(ctx context.Context, i *invoice.Invoice) error {
	q := r.db.GetQuerier(ctx)

	_, err := q.ExecContext(ctx, `
		INSERT INTO billing_invoices (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		i.ID, i.InvoiceNumber, i.Kind, i.InvoiceStatus, i.Currency,
		i.PeriodStart, i.PeriodEnd, i.TotalAmountMinor, i.Description, i.PaidAt,
		i.TenantID, i.Status, i.CreatedAt, i.UpdatedAt, i.CreatedBy, i.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			WithReportableDetails(map[string]any{
				"tenant_id":      i.TenantID,
				"invoice_number": i.InvoiceNumber,
			}).
			Mark(ierr.ErrDatabase)
	}

	for _, li := range i.LineItems {
		_, err := q.ExecContext(ctx, `
			INSERT INTO billing_invoice_line_items (`+lineItemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			li.ID, li.InvoiceID, li.Component, li.Description, li.Quantity,
			li.UnitAmountMinor, li.AmountMinor,
			li.TenantID, li.Status, li.CreatedAt, li.UpdatedAt, li.CreatedBy, li.UpdatedBy,
		)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to create invoice line item").
				WithReportableDetails(map[string]any{
					"invoice_id": i.ID,
					"component":  li.Component,
				}).
				Mark(ierr.ErrDatabase)
		}
	}
	return nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id string) (*invoice.Invoice, error) {
	var i invoice.Invoice
	q := r.db.GetQuerier(ctx)
	err := q.GetContext(ctx, &i, `
		SELECT `+invoiceColumns+` FROM billing_invoices
		WHERE id = $1 AND status = $2`,
		id, types.StatusPublished,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("invoice not found").
				WithReportableDetails(map[string]any{"invoice_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load invoice").
			Mark(ierr.ErrDatabase)
	}

	if err := r.loadLineItems(ctx, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *invoiceRepository) GetByPeriod(ctx context.Context, tenantID string, periodStart time.Time) (*invoice.Invoice, error) {
	var i invoice.Invoice
	q := r.db.GetQuerier(ctx)
	err := q.GetContext(ctx, &i, `
		SELECT `+invoiceColumns+` FROM billing_invoices
		WHERE tenant_id = $1 AND period_start = $2 AND kind = $3 AND status = $4
		ORDER BY created_at DESC
		LIMIT 1`,
		tenantID, periodStart, types.InvoiceKindSubscription, types.StatusPublished,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("invoice not found for period").
				WithReportableDetails(map[string]any{
					"tenant_id":    tenantID,
					"period_start": periodStart,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load invoice for period").
			Mark(ierr.ErrDatabase)
	}

	if err := r.loadLineItems(ctx, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *invoiceRepository) loadLineItems(ctx context.Context, i *invoice.Invoice) error {
	q := r.db.GetQuerier(ctx)
	err := q.SelectContext(ctx, &i.LineItems, `
		SELECT `+lineItemColumns+` FROM billing_invoice_line_items
		WHERE invoice_id = $1 AND status = $2
		ORDER BY created_at, id`,
		i.ID, types.StatusPublished,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to load invoice line items").
			WithReportableDetails(map[string]any{"invoice_id": i.ID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, tenantID string, f *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	if f == nil {
		f = &types.InvoiceFilter{}
	}

	query := `SELECT ` + invoiceColumns + ` FROM billing_invoices
		WHERE tenant_id = $1 AND status = $2`
	args := []interface{}{tenantID, types.StatusPublished}

	if f.Status != nil {
		args = append(args, *f.Status)
		query += fmt.Sprintf(" AND invoice_status = $%d", len(args))
	}

	args = append(args, f.GetLimit(), f.GetOffset())
	query += fmt.Sprintf(" ORDER BY period_start DESC, created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	var invoices []*invoice.Invoice
	q := r.db.GetQuerier(ctx)
	if err := q.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}

	for _, i := range invoices {
		if err := r.loadLineItems(ctx, i); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, tenantID string, f *types.InvoiceFilter) (int, error) {
	query := `SELECT COUNT(*) FROM billing_invoices WHERE tenant_id = $1 AND status = $2`
	args := []interface{}{tenantID, types.StatusPublished}

	if f != nil && f.Status != nil {
		args = append(args, *f.Status)
		query += fmt.Sprintf(" AND invoice_status = $%d", len(args))
	}

	var count int
	q := r.db.GetQuerier(ctx)
	if err := q.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count invoices").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id string, status types.InvoiceStatus, paidAt *time.Time) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE billing_invoices
		SET invoice_status = $2, paid_at = $3, updated_at = $4
		WHERE id = $1`,
		id, status, paidAt, time.Now().UTC(),
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice status").
			WithReportableDetails(map[string]any{
				"invoice_id": id,
				"status":     status,
			}).
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("invoice not found").
			WithReportableDetails(map[string]any{"invoice_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
