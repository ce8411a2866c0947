package types

import "github.com/shopspring/decimal"

// DefaultMinimumAdvanceMonths is the balance buffer used for the required
// balance figure and the health-scan thresholds when config leaves it unset.
const DefaultMinimumAdvanceMonths = 3

// BalanceHealth classifies a tenant by months of runway remaining
type BalanceHealth string

const (
	BalanceHealthHealthy      BalanceHealth = "HEALTHY"
	BalanceHealthLow          BalanceHealth = "LOW"
	BalanceHealthCritical     BalanceHealth = "CRITICAL"
	BalanceHealthInsufficient BalanceHealth = "INSUFFICIENT"
)

var (
	runwayHealthy  = decimal.NewFromFloat(2.5)
	runwayLow      = decimal.NewFromFloat(1.5)
	runwayCritical = decimal.NewFromInt(1)
)

// ClassifyRunway maps months-of-runway to a health bucket. A nil value means
// the tenant has no monthly charge and is treated as healthy.
func ClassifyRunway(monthsRemaining *decimal.Decimal) BalanceHealth {
	if monthsRemaining == nil {
		return BalanceHealthHealthy
	}
	switch {
	case monthsRemaining.GreaterThanOrEqual(runwayHealthy):
		return BalanceHealthHealthy
	case monthsRemaining.GreaterThanOrEqual(runwayLow):
		return BalanceHealthLow
	case monthsRemaining.GreaterThanOrEqual(runwayCritical):
		return BalanceHealthCritical
	default:
		return BalanceHealthInsufficient
	}
}
