package dto

import (
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/domain/wallet"
	"github.com/atshybrid/kaburlu-billing/internal/types"
	"github.com/atshybrid/kaburlu-billing/internal/validator"
	"github.com/shopspring/decimal"
)

type TopUpWalletRequest struct {
	AmountMinor int64  `json:"amount_minor" validate:"required,gt=0"`
	Description string `json:"description,omitempty"`
	ReferenceID string `json:"reference_id,omitempty"`
}

func (r *TopUpWalletRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type BulkTopUpRequest struct {
	Months      int    `json:"months" validate:"required,gt=0"`
	ReferenceID string `json:"reference_id,omitempty"`
}

func (r *BulkTopUpRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type AdjustWalletRequest struct {
	AmountMinor int64  `json:"amount_minor" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (r *AdjustWalletRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// WalletBalanceResponse is the admin wallet view: raw balances plus the
// derived health figures computed against the current monthly charge.
type WalletBalanceResponse struct {
	TenantID              string           `json:"tenant_id"`
	Currency              string           `json:"currency"`
	BalanceMinor          int64            `json:"balance_minor"`
	LockedBalanceMinor    int64            `json:"locked_balance_minor"`
	AvailableBalanceMinor int64            `json:"available_balance_minor"`
	MonthlyChargeMinor    int64            `json:"monthly_charge_minor"`
	MonthsRemaining       *decimal.Decimal `json:"months_remaining,omitempty"`
	HasSufficientBalance  bool             `json:"has_sufficient_balance"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

type WalletTransactionsResponse = types.ListResponse[*wallet.Transaction]

// BulkTopUpResponse reports the applied discount and the credited amount
type BulkTopUpResponse struct {
	Quote           *BulkDiscountResponse `json:"quote"`
	CreditedMinor   int64                 `json:"credited_minor"`
	NewBalanceMinor int64                 `json:"new_balance_minor"`
}
