package dto

import (
	"github.com/atshybrid/kaburlu-billing/internal/validator"
)

type CreateTenantRequest struct {
	Name string `json:"name" validate:"required"`
	ID   string `json:"id,omitempty"`
}

func (r *CreateTenantRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type LockTenantRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (r *LockTenantRequest) Validate() error {
	return validator.ValidateRequest(r)
}
