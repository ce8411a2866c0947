package dto

import (
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/types"
	"github.com/shopspring/decimal"
)

// BillingRunSummary aggregates outcomes of one monthly billing run. The four
// counters partition the tenant set; Errors carries the per-tenant failures
// that were isolated rather than aborting the run.
type BillingRunSummary struct {
	Period        string    `json:"period"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
	TenantsTotal  int       `json:"tenants_total"`
	Invoiced      int       `json:"invoiced"`
	NoCharge      int       `json:"no_charge"`
	LockedSkipped int       `json:"locked_skipped"`
	Errored       int       `json:"errored"`

	Errors []BillingRunError `json:"errors,omitempty"`
}

type BillingRunError struct {
	TenantID string `json:"tenant_id"`
	Error    string `json:"error"`
}

// BalanceHealthReport is one tenant's row from the daily health scan
type BalanceHealthReport struct {
	TenantID              string              `json:"tenant_id"`
	AvailableBalanceMinor int64               `json:"available_balance_minor"`
	MonthlyChargeMinor    int64               `json:"monthly_charge_minor"`
	MonthsRemaining       *decimal.Decimal    `json:"months_remaining,omitempty"`
	Health                types.BalanceHealth `json:"health"`
}

// BalanceHealthSummary aggregates the daily scan for notification dispatch
type BalanceHealthSummary struct {
	AsOf         time.Time             `json:"as_of"`
	TenantsTotal int                   `json:"tenants_total"`
	Healthy      int                   `json:"healthy"`
	Low          int                   `json:"low"`
	Critical     int                   `json:"critical"`
	Insufficient int                   `json:"insufficient"`
	Errored      int                   `json:"errored"`
	Reports      []BalanceHealthReport `json:"reports"`
}
