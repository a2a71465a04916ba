package comparison

import (
	"testing"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestGrowth(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		baseline string
		want     string
	}{
		{name: "half again", current: "150", baseline: "100", want: "50"},
		{name: "zero baseline", current: "50", baseline: "0", want: "0"},
		{name: "both zero", current: "0", baseline: "0", want: "0"},
		{name: "decline", current: "1", baseline: "3", want: "-66.67"},
		{name: "negative baseline", current: "-5", baseline: "-10", want: "-50"},
		{name: "rounds half up", current: "1.0001", baseline: "0.8", want: "25.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Growth(decimal.RequireFromString(tt.current), decimal.RequireFromString(tt.baseline))
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestRatio(t *testing.T) {
	assertDecimal(t, "3.33", Ratio(decimal.NewFromInt(10), decimal.NewFromInt(3)))
	assertDecimal(t, "0", Ratio(decimal.NewFromInt(10), decimal.Zero))
	assertDecimal(t, "0.5", Ratio(decimal.NewFromInt(1), decimal.NewFromInt(2)))
}

func TestShare(t *testing.T) {
	assertDecimal(t, "33.33", Share(decimal.NewFromInt(1), decimal.NewFromInt(3)))
	assertDecimal(t, "100", Share(decimal.NewFromInt(7), decimal.NewFromInt(7)))
	assertDecimal(t, "0", Share(decimal.NewFromInt(5), decimal.Zero))
}

func TestCompare(t *testing.T) {
	// Given
	row := domain.ComparisonRow{
		Periods: map[string]domain.MetricSet{
			"D-1":     {"revenue": decimal.NewFromInt(200), "spend": decimal.NewFromInt(0)},
			"Current": {"revenue": decimal.NewFromInt(300), "spend": decimal.NewFromInt(60)},
		},
	}
	cfg := CompareConfig{
		Periods:       []string{"D-1", "Current"},
		Current:       "Current",
		Baseline:      "D-1",
		Metrics:       []string{"revenue", "spend"},
		GrowthMetrics: []string{"revenue", "spend"},
		Ratios:        []domain.RatioSpec{{Name: "roas", Numerator: "revenue", Denominator: "spend"}},
	}

	// When
	Compare(&row, cfg)

	// Then
	assertDecimal(t, "100", row.Deltas["revenue"])
	assertDecimal(t, "60", row.Deltas["spend"])
	assertDecimal(t, "50", row.Growth["revenue"])
	assertDecimal(t, "0", row.Growth["spend"])
	assertDecimal(t, "5", row.Ratios["Current"]["roas"])
	assertDecimal(t, "0", row.Ratios["D-1"]["roas"])
}
