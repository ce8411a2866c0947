package types

import (
	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
	"github.com/samber/lo"
)

// ServiceKind identifies a billable platform service
type ServiceKind string

const (
	ServiceKindEpaper        ServiceKind = "EPAPER"
	ServiceKindNewsWebsite   ServiceKind = "NEWS_WEBSITE"
	ServiceKindPrintService  ServiceKind = "PRINT_SERVICE"
	ServiceKindCustomService ServiceKind = "CUSTOM_SERVICE"
)

// AllServiceKinds lists every billable service in billing order
func AllServiceKinds() []ServiceKind {
	return []ServiceKind{
		ServiceKindEpaper,
		ServiceKindNewsWebsite,
		ServiceKindPrintService,
		ServiceKindCustomService,
	}
}

// IsMetered reports whether the service bills per unit rather than a flat
// monthly fee. Only epaper page production is metered today.
func (s ServiceKind) IsMetered() bool {
	return s == ServiceKindEpaper
}

func (s ServiceKind) Validate() error {
	allowedValues := []string{
		string(ServiceKindEpaper),
		string(ServiceKindNewsWebsite),
		string(ServiceKindPrintService),
		string(ServiceKindCustomService),
	}
	if !lo.Contains(allowedValues, string(s)) {
		return ierr.NewError("invalid service").
			WithHint("Invalid service").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"service": s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
