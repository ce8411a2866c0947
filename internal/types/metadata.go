package types

import (
	"database/sql/driver"
	"encoding/json"

	ierr "github.com/atshybrid/kaburlu-billing/internal/errors"
)

// Metadata is a jsonb column of free-form string pairs
type Metadata map[string]string

// Value implements driver.Valuer for jsonb storage
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for jsonb storage
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return ierr.NewError("unsupported metadata column type").
			Mark(ierr.ErrDatabase)
	}
	return json.Unmarshal(b, m)
}
