package dto

import (
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/types"
	"github.com/atshybrid/kaburlu-billing/internal/validator"
)

type RecordUsageRequest struct {
	Service types.ServiceKind `json:"service" validate:"required"`
	Units   int64             `json:"units" validate:"required,gt=0"`
}

func (r *RecordUsageRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Service.Validate()
}

type RecordOtherChargeRequest struct {
	AmountMinor int64  `json:"amount_minor" validate:"required,gt=0"`
	Description string `json:"description" validate:"required"`
}

func (r *RecordOtherChargeRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ChargeLine is one component of a monthly charge breakdown
type ChargeLine struct {
	Component       string `json:"component"`
	Description     string `json:"description"`
	Units           int64  `json:"units,omitempty"`
	BilledUnits     int64  `json:"billed_units,omitempty"`
	UnitAmountMinor int64  `json:"unit_amount_minor,omitempty"`
	AmountMinor     int64  `json:"amount_minor"`
}

// MonthlyChargeResponse is the computed charge breakdown for one period
type MonthlyChargeResponse struct {
	TenantID             string       `json:"tenant_id"`
	PeriodStart          time.Time    `json:"period_start"`
	PeriodEnd            time.Time    `json:"period_end"`
	Lines                []ChargeLine `json:"lines"`
	TotalChargeMinor     int64        `json:"total_charge_minor"`
	RequiredBalanceMinor int64        `json:"required_balance_minor"`
	MinimumAdvanceMonths int          `json:"minimum_advance_months"`
}

type CalculateBulkRequest struct {
	Months int `json:"months" validate:"required,gt=0"`
}

func (r *CalculateBulkRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// BulkDiscountResponse is the prepayment quote for a number of months
type BulkDiscountResponse struct {
	Months              int   `json:"months"`
	MonthlyChargeMinor  int64 `json:"monthly_charge_minor"`
	SubtotalMinor       int64 `json:"subtotal_minor"`
	DiscountPercent     int   `json:"discount_percent"`
	DiscountAmountMinor int64 `json:"discount_amount_minor"`
	TotalMinor          int64 `json:"total_minor"`
}
