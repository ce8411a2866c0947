package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthPeriodOf(t *testing.T) {
	tests := []struct {
		name      string
		input     time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "mid-month",
			input:     time.Date(2025, 3, 15, 13, 45, 0, 0, time.UTC),
			wantStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
		{
			name:      "first instant of month",
			input:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
		{
			name:      "december rolls into next year",
			input:     time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
			wantStart: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
		{
			name:      "february in a leap year",
			input:     time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "non-UTC input is normalized",
			input:     time.Date(2025, 6, 1, 2, 0, 0, 0, time.FixedZone("IST", 5*3600+1800)),
			wantStart: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthPeriodOf(tt.input)
			assert.True(t, got.Start.Equal(tt.wantStart), "start: got %s want %s", got.Start, tt.wantStart)
			assert.True(t, got.End.Equal(tt.wantEnd), "end: got %s want %s", got.End, tt.wantEnd)
		})
	}
}

func TestPreviousMonthPeriod(t *testing.T) {
	got := PreviousMonthPeriod(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	assert.True(t, got.Start.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-02", got.Key())

	got = PreviousMonthPeriod(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-12", got.Key())
}

func TestBillingPeriodValidate(t *testing.T) {
	valid := MonthPeriodOf(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, valid.Validate())

	assert.Error(t, BillingPeriod{}.Validate())

	reversed := BillingPeriod{Start: valid.End, End: valid.Start}
	assert.Error(t, reversed.Validate())

	midMonth := BillingPeriod{
		Start: valid.Start.AddDate(0, 0, 10),
		End:   valid.End,
	}
	assert.Error(t, midMonth.Validate())
}
