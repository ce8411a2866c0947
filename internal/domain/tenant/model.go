package tenant

import (
	"time"

	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/atshybrid/kaburlu-billing/internal/types"
)

// Tenant is the billing view of a platform tenant. The lock fields are
// mutated only by the access lock controller; every tenant-facing capability
// elsewhere is expected to consult SubscriptionLocked before proceeding.
type Tenant struct {
	ID                 string       `db:"id" json:"id"`
	Name               string       `db:"name" json:"name"`
	SubscriptionLocked bool         `db:"subscription_locked" json:"subscription_locked"`
	LockedReason       *string      `db:"locked_reason" json:"locked_reason,omitempty"`
	LockedAt           *time.Time   `db:"locked_at" json:"locked_at,omitempty"`
	Status             types.Status `db:"status" json:"status"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updated_at"`
}

func (t *Tenant) TableName() string {
	return "tenants"
}

func (t *Tenant) Validate() error {
	if t.Name == "" {
		return ierr.NewError("tenant name is required").
			WithHint("Tenant name is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
