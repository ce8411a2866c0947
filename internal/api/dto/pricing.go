package dto

import (
	"time"

	"github.com/atshybrid/kaburlu-billing/internal/domain/pricing"
	"github.com/atshybrid/kaburlu-billing/internal/types"
	"github.com/atshybrid/kaburlu-billing/internal/validator"
)

type SetPricingRequest struct {
	Service                types.ServiceKind `json:"service" validate:"required"`
	PricePerUnitMinor      int64             `json:"price_per_unit_minor" validate:"gte=0"`
	MonthlyFeeMinor        int64             `json:"monthly_fee_minor" validate:"gte=0"`
	MinUnitsPerPeriod      int64             `json:"min_units_per_period" validate:"gte=0"`
	Discount6MonthPercent  int               `json:"discount_6_month_percent" validate:"gte=0,lte=100"`
	Discount12MonthPercent int               `json:"discount_12_month_percent" validate:"gte=0,lte=100"`
	EffectiveFrom          *time.Time        `json:"effective_from,omitempty"`
}

func (r *SetPricingRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Service.Validate()
}

type PricingResponse struct {
	*pricing.Pricing
}

type ListPricingResponse = types.ListResponse[*PricingResponse]

// ServiceStatusResponse is one row of the per-tenant service matrix
type ServiceStatusResponse struct {
	Service types.ServiceKind `json:"service"`
	Metered bool              `json:"metered"`
	Active  bool              `json:"active"`
	Pricing *pricing.Pricing  `json:"pricing,omitempty"`
}

type ToggleServiceRequest struct {
	Active bool `json:"active"`

	// Required when activating a service with no pricing history
	Pricing *SetPricingRequest `json:"pricing,omitempty"`
}
