package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atshybrid/kaburlu-billing/internal/api/dto"
	"github.com/atshybrid/kaburlu-billing/internal/domain/invoice"
	"github.com/atshybrid/kaburlu-billing/internal/domain/wallet"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// InvoiceService turns a period's computed charges into an invoice and
// settles it against the wallet. Generation is idempotent per (tenant,
// period) via the usage-row invoice link.
type InvoiceService interface {
	GenerateMonthlyInvoice(ctx context.Context, tenantID string, period types.BillingPeriod) (*dto.GenerateInvoiceResponse, error)
	GetInvoice(ctx context.Context, tenantID string, invoiceID string) (*invoice.Invoice, error)
	ListInvoices(ctx context.Context, tenantID string, f *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{ServiceParams: params}
}

func (s *invoiceService) GenerateMonthlyInvoice(ctx context.Context, tenantID string, period types.BillingPeriod) (*dto.GenerateInvoiceResponse, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	billingService := NewBillingService(s.ServiceParams)
	charge, err := billingService.CalculateMonthlyCharge(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}

	if charge.TotalChargeMinor == 0 {
		return &dto.GenerateInvoiceResponse{NoCharge: true}, nil
	}

	inv, err := s.createInvoice(ctx, tenantID, period, charge)
	if err != nil {
		return nil, err
	}

	if err := s.settleInvoice(ctx, inv); err != nil {
		return nil, err
	}
	return &dto.GenerateInvoiceResponse{Invoice: inv}, nil
}

// createInvoice writes the OPEN invoice and claims the period's usage row in
// one transaction. The usage-row link is the idempotency guard: losing it
// means another run already billed the period.
func (s *invoiceService) createInvoice(ctx context.Context, tenantID string, period types.BillingPeriod, charge *dto.MonthlyChargeResponse) (*invoice.Invoice, error) {
	var inv *invoice.Invoice
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		u, err := s.UsageRepo.GetByPeriodForUpdate(ctx, tenantID, period.Start)
		if err != nil {
			return err
		}
		if u.IsBilled() {
			return duplicatePeriodError(tenantID, period, *u.InvoiceID)
		}

		inv = &invoice.Invoice{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
			InvoiceNumber: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_INVOICE),
			Kind:          types.InvoiceKindSubscription,
			InvoiceStatus: types.InvoiceStatusOpen,
			Currency:      s.Config.Billing.Currency,
			PeriodStart:   period.Start,
			PeriodEnd:     period.End,
			Description:   fmt.Sprintf("monthly charges for %s", period.Key()),
			BaseModel:     types.GetDefaultBaseModel(ctx),
		}
		inv.TenantID = tenantID

		// The total is the sum of the line items by construction
		var total int64
		for _, line := range charge.Lines {
			quantity := line.BilledUnits
			if quantity == 0 {
				quantity = 1
			}
			li := &invoice.LineItem{
				ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
				InvoiceID:       inv.ID,
				Component:       line.Component,
				Description:     line.Description,
				Quantity:        quantity,
				UnitAmountMinor: line.UnitAmountMinor,
				AmountMinor:     line.AmountMinor,
				BaseModel:       types.GetDefaultBaseModel(ctx),
			}
			li.TenantID = tenantID
			inv.LineItems = append(inv.LineItems, li)
			total += li.AmountMinor
		}
		inv.TotalAmountMinor = total

		if err := inv.Validate(); err != nil {
			return err
		}
		if err := s.InvoiceRepo.CreateWithLineItems(ctx, inv); err != nil {
			return err
		}

		linked, err := s.UsageRepo.LinkInvoice(ctx, u.ID, inv.ID)
		if err != nil {
			return err
		}
		if !linked {
			return duplicatePeriodError(tenantID, period, "")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// settleInvoice debits the wallet for the invoice total. The debit is its own
// atomic unit: a failed collection keeps the invoice, recorded as PAST_DUE
// with the tenant locked, rather than discarding it.
func (s *invoiceService) settleInvoice(ctx context.Context, inv *invoice.Invoice) error {
	walletService := NewWalletService(s.ServiceParams)
	_, err := walletService.Debit(ctx, &wallet.WalletOperation{
		TenantID:      inv.TenantID,
		AmountMinor:   inv.TotalAmountMinor,
		Description:   fmt.Sprintf("invoice %s", inv.InvoiceNumber),
		ReferenceType: types.WalletTxReferenceTypeInvoice,
		ReferenceID:   inv.ID,
	})

	if err == nil {
		now := time.Now().UTC()
		if err := s.InvoiceRepo.UpdateStatus(ctx, inv.ID, types.InvoiceStatusPaid, &now); err != nil {
			return err
		}
		inv.InvoiceStatus = types.InvoiceStatusPaid
		inv.PaidAt = &now
		s.Logger.Infow("invoice paid",
			"tenant_id", inv.TenantID,
			"invoice_id", inv.ID,
			"total_minor", inv.TotalAmountMinor,
		)
		return nil
	}

	if !ierr.Is(err, ierr.ErrInsufficientBalance) {
		return err
	}

	if err := s.InvoiceRepo.UpdateStatus(ctx, inv.ID, types.InvoiceStatusPastDue, nil); err != nil {
		return err
	}
	inv.InvoiceStatus = types.InvoiceStatusPastDue

	required := decimal.NewFromInt(inv.TotalAmountMinor).Div(decimal.NewFromInt(100))
	reason := fmt.Sprintf("insufficient balance for monthly charges: required ₹%s", required.StringFixed(2))

	lockService := NewAccessLockService(s.ServiceParams)
	if err := lockService.Lock(ctx, inv.TenantID, reason); err != nil {
		return err
	}

	s.Logger.Warnw("invoice past due, tenant locked",
		"tenant_id", inv.TenantID,
		"invoice_id", inv.ID,
		"total_minor", inv.TotalAmountMinor,
	)
	return nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, tenantID string, invoiceID string) (*invoice.Invoice, error) {
	inv, err := s.InvoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.TenantID != tenantID {
		return nil, ierr.NewError("invoice not found").
			WithReportableDetails(map[string]any{"invoice_id": invoiceID}).
			Mark(ierr.ErrNotFound)
	}
	return inv, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, tenantID string, f *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if f == nil {
		f = &types.InvoiceFilter{}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.InvoiceRepo.Count(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}

	return &dto.ListInvoicesResponse{
		Items: invoices,
		Pagination: types.PaginationResponse{
			Total:    total,
			Page:     f.GetPage(),
			PageSize: f.GetPageSize(),
		},
	}, nil
}

func duplicatePeriodError(tenantID string, period types.BillingPeriod, invoiceID string) error {
	return ierr.NewError("period already billed").
		WithHint("An invoice already exists for this tenant and period").
		WithReportableDetails(map[string]any{
			"tenant_id":  tenantID,
			"period":     period.Key(),
			"invoice_id": invoiceID,
		}).
		Mark(ierr.ErrDuplicateInvoicePeriod)
}
