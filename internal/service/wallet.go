package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lib/pq"

	"github.com/atshybrid/kaburlu-billing/internal/api/dto"
	"github.com/atshybrid/kaburlu-billing/internal/domain/wallet"
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// WalletService is the prepaid wallet ledger. Every mutation runs as one
// atomic unit: lock the wallet row, validate, write balances, append the
// transaction. A losing concurrent writer retries the whole cycle.
type WalletService interface {
	Credit(ctx context.Context, op *wallet.WalletOperation) (*wallet.Wallet, error)
	Debit(ctx context.Context, op *wallet.WalletOperation) (*wallet.Wallet, error)
	LockFunds(ctx context.Context, tenantID string, amountMinor int64, referenceID string) (*wallet.Wallet, error)
	UnlockFunds(ctx context.Context, tenantID string, amountMinor int64, referenceID string) (*wallet.Wallet, error)
	Adjust(ctx context.Context, op *wallet.WalletOperation) (*wallet.Wallet, error)
	Refund(ctx context.Context, op *wallet.WalletOperation) (*wallet.Wallet, error)

	GetBalance(ctx context.Context, tenantID string) (*dto.WalletBalanceResponse, error)
	ListTransactions(ctx context.Context, tenantID string, f *types.TransactionFilter) (*dto.WalletTransactionsResponse, error)

	TopUp(ctx context.Context, tenantID string, req *dto.TopUpWalletRequest) (*dto.WalletBalanceResponse, error)
	TopUpBulk(ctx context.Context, tenantID string, req *dto.BulkTopUpRequest) (*dto.BulkTopUpResponse, error)
}

type walletService struct {
	ServiceParams
}

func NewWalletService(params ServiceParams) WalletService {
	return &walletService{ServiceParams: params}
}

func (s *walletService) Credit(ctx context.Context, op *wallet.WalletOperation) (*wallet.Wallet, error) {
	op.Type = types.TransactionTypeCredit
	if op.ReferenceType == "" {
		op.ReferenceType = types.WalletTxReferenceTypeTopup
	}
	return s.applyOperation(ctx, op)
}

func (s *walletService) Debit(ctx context.Context, op *wallet.WalletOperation) (*wallet.Wallet, error) {
	op.Type = types.TransactionTypeDebit
	return s.applyOperation(ctx, op)
}

func (s *walletService) LockFunds(ctx context.Context, tenantID string, amountMinor int64, referenceID string) (*wallet.Wallet, error) {
	return s.applyOperation(ctx, &wallet.WalletOperation{
		TenantID:      tenantID,
		Type:          types.TransactionTypeLock,
		AmountMinor:   amountMinor,
		Description:   "funds locked",
		ReferenceType: types.WalletTxReferenceTypeSystem,
		ReferenceID:   referenceID,
	})
}

func (s *walletService) UnlockFunds(ctx context.Context, tenantID string, amountMinor int64, referenceID string) (*wallet.Wallet, error) {
	return s.applyOperation(ctx, &wallet.WalletOperation{
		TenantID:      tenantID,
		Type:          types.TransactionTypeUnlock,
		AmountMinor:   amountMinor,
		Description:   "funds unlocked",
		ReferenceType: types.WalletTxReferenceTypeSystem,
		ReferenceID:   referenceID,
	})
}

func (s *walletService) Adjust(ctx context.Context, op *wallet.WalletOperation) (*wallet.Wallet, error) {
	op.Type = types.TransactionTypeAdjustment
	if op.ReferenceType == "" {
		op.ReferenceType = types.WalletTxReferenceTypeAdjustment
	}
	return s.applyOperation(ctx, op)
}

func (s *walletService) Refund(ctx context.Context, op *wallet.WalletOperation) (*wallet.Wallet, error) {
	op.Type = types.TransactionTypeRefund
	if op.ReferenceType == "" {
		op.ReferenceType = types.WalletTxReferenceTypeRefund
	}
	return s.applyOperation(ctx, op)
}

// applyOperation runs the read-validate-write cycle inside one transaction,
// retrying on postgres serialization conflicts so a losing concurrent writer
// re-reads the wallet instead of overwriting it.
func (s *walletService) applyOperation(ctx context.Context, op *wallet.WalletOperation) (*wallet.Wallet, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}

	var result *wallet.Wallet
	attempt := func() error {
		w, err := s.applyOnce(ctx, op)
		if err != nil {
			if isSerializationConflict(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		result = w
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(attempt, policy); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *walletService) applyOnce(ctx context.Context, op *wallet.WalletOperation) (*wallet.Wallet, error) {
	var result *wallet.Wallet
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		w, err := s.WalletRepo.GetByTenantIDForUpdate(ctx, op.TenantID)
		if err != nil {
			if !ierr.IsNotFound(err) {
				return err
			}
			w, err = s.createWallet(ctx, op.TenantID)
			if err != nil {
				return err
			}
		}

		balance := w.BalanceMinor
		locked := w.LockedBalanceMinor
		txAmount := op.AmountMinor

		switch op.Type {
		case types.TransactionTypeCredit, types.TransactionTypeRefund:
			balance += op.AmountMinor

		case types.TransactionTypeDebit:
			if balance < op.AmountMinor {
				return ierr.NewError("insufficient balance").
					WithHint("Wallet balance is lower than the debit amount").
					WithReportableDetails(map[string]any{
						"tenant_id":     op.TenantID,
						"balance_minor": balance,
						"amount_minor":  op.AmountMinor,
					}).
					Mark(ierr.ErrInsufficientBalance)
			}
			balance -= op.AmountMinor
			if locked > balance {
				locked = balance
			}
			txAmount = -op.AmountMinor

		case types.TransactionTypeLock:
			if balance-locked < op.AmountMinor {
				return ierr.NewError("insufficient available balance").
					WithHint("Unlocked funds are lower than the lock amount").
					WithReportableDetails(map[string]any{
						"tenant_id":       op.TenantID,
						"available_minor": balance - locked,
						"amount_minor":    op.AmountMinor,
					}).
					Mark(ierr.ErrInsufficientAvailableBalance)
			}
			locked += op.AmountMinor

		case types.TransactionTypeUnlock:
			locked -= op.AmountMinor
			if locked < 0 {
				locked = 0
			}

		case types.TransactionTypeAdjustment:
			if balance+op.AmountMinor < 0 {
				return ierr.NewError("adjustment would drive balance negative").
					WithHint("Adjustment cannot take the wallet balance below zero").
					WithReportableDetails(map[string]any{
						"tenant_id":     op.TenantID,
						"balance_minor": balance,
						"amount_minor":  op.AmountMinor,
					}).
					Mark(ierr.ErrWouldGoNegative)
			}
			balance += op.AmountMinor
			if locked > balance {
				locked = balance
			}
		}

		if err := s.WalletRepo.UpdateBalances(ctx, w.ID, balance, locked); err != nil {
			return err
		}

		t := &wallet.Transaction{
			ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WALLET_TRANSACTION),
			WalletID:          w.ID,
			Type:              op.Type,
			AmountMinor:       txAmount,
			BalanceAfterMinor: balance,
			Description:       op.Description,
			ReferenceType:     op.ReferenceType,
			ReferenceID:       op.ReferenceID,
			Metadata:          op.Metadata,
			BaseModel:         types.GetDefaultBaseModel(ctx),
		}
		t.TenantID = op.TenantID
		if err := s.WalletRepo.CreateTransaction(ctx, t); err != nil {
			return err
		}

		w.BalanceMinor = balance
		w.LockedBalanceMinor = locked

		// Crediting a locked tenant unlocks it in the same transaction, so
		// every caller of the credit path gets the same guarantee.
		if op.Type == types.TransactionTypeCredit || op.Type == types.TransactionTypeRefund {
			if err := s.unlockTenantIfLocked(ctx, op.TenantID); err != nil {
				return err
			}
		}

		result = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *walletService) unlockTenantIfLocked(ctx context.Context, tenantID string) error {
	t, err := s.TenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if !t.SubscriptionLocked {
		return nil
	}

	lockService := NewAccessLockService(s.ServiceParams)
	if err := lockService.Unlock(ctx, tenantID); err != nil {
		return err
	}
	s.Logger.Infow("tenant unlocked after credit", "tenant_id", tenantID)
	return nil
}

// createWallet lazily provisions a zero wallet on first access
func (s *walletService) createWallet(ctx context.Context, tenantID string) (*wallet.Wallet, error) {
	if _, err := s.TenantRepo.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}

	w := wallet.NewWallet(ctx, tenantID, s.Config.Billing.Currency)
	if err := s.WalletRepo.Create(ctx, w); err != nil {
		return nil, err
	}
	s.Logger.Infow("wallet created", "tenant_id", tenantID, "wallet_id", w.ID)
	return w, nil
}

func (s *walletService) GetBalance(ctx context.Context, tenantID string) (*dto.WalletBalanceResponse, error) {
	w, err := s.WalletRepo.GetByTenantID(ctx, tenantID)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		err = s.DB.WithTx(ctx, func(ctx context.Context) error {
			w, err = s.createWallet(ctx, tenantID)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	billingService := NewBillingService(s.ServiceParams)
	charge, err := billingService.CalculateMonthlyCharge(ctx, tenantID, types.MonthPeriodOf(time.Now()))
	if err != nil {
		return nil, err
	}

	available := w.AvailableBalanceMinor()
	monthsRemaining := MonthsOfRunway(available, charge.TotalChargeMinor)

	return &dto.WalletBalanceResponse{
		TenantID:              tenantID,
		Currency:              w.Currency,
		BalanceMinor:          w.BalanceMinor,
		LockedBalanceMinor:    w.LockedBalanceMinor,
		AvailableBalanceMinor: available,
		MonthlyChargeMinor:    charge.TotalChargeMinor,
		MonthsRemaining:       monthsRemaining,
		HasSufficientBalance:  types.ClassifyRunway(monthsRemaining) != types.BalanceHealthInsufficient,
		UpdatedAt:             w.UpdatedAt,
	}, nil
}

func (s *walletService) ListTransactions(ctx context.Context, tenantID string, f *types.TransactionFilter) (*dto.WalletTransactionsResponse, error) {
	if f == nil {
		f = &types.TransactionFilter{}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	transactions, err := s.WalletRepo.ListTransactions(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.WalletRepo.CountTransactions(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}

	return &dto.WalletTransactionsResponse{
		Items: transactions,
		Pagination: types.PaginationResponse{
			Total:    total,
			Page:     f.GetPage(),
			PageSize: f.GetPageSize(),
		},
	}, nil
}

func (s *walletService) TopUp(ctx context.Context, tenantID string, req *dto.TopUpWalletRequest) (*dto.WalletBalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = "wallet top-up"
	}

	_, err := s.Credit(ctx, &wallet.WalletOperation{
		TenantID:      tenantID,
		AmountMinor:   req.AmountMinor,
		Description:   description,
		ReferenceType: types.WalletTxReferenceTypeTopup,
		ReferenceID:   req.ReferenceID,
	})
	if err != nil {
		return nil, err
	}
	return s.GetBalance(ctx, tenantID)
}

func (s *walletService) TopUpBulk(ctx context.Context, tenantID string, req *dto.BulkTopUpRequest) (*dto.BulkTopUpResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	billingService := NewBillingService(s.ServiceParams)
	quote, err := billingService.CalculateBulkDiscount(ctx, tenantID, req.Months)
	if err != nil {
		return nil, err
	}

	w, err := s.Credit(ctx, &wallet.WalletOperation{
		TenantID:      tenantID,
		AmountMinor:   quote.TotalMinor,
		Description:   fmt.Sprintf("bulk top-up for %d months", req.Months),
		ReferenceType: types.WalletTxReferenceTypeBulkTopup,
		ReferenceID:   req.ReferenceID,
	})
	if err != nil {
		return nil, err
	}

	return &dto.BulkTopUpResponse{
		Quote:           quote,
		CreditedMinor:   quote.TotalMinor,
		NewBalanceMinor: w.BalanceMinor,
	}, nil
}

// isSerializationConflict reports whether the error is a postgres
// serialization failure or deadlock, both safe to retry from scratch.
func isSerializationConflict(err error) bool {
	var pqErr *pq.Error
	if !ierr.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}
