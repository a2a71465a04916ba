package comparison

import (
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// Places is the rounding precision of growth percentages and ratios.
const Places = 2

var hundred = decimal.NewFromInt(100)

// CompareConfig is what the calculator needs to derive deltas, growth and ratios.
type CompareConfig struct {
	Periods       []string
	Current       string
	Baseline      string
	Metrics       []string
	GrowthMetrics []string
	Ratios        []domain.RatioSpec
}

// Compare fills the derived values of row from its raw period metrics.
func Compare(row *domain.ComparisonRow, cfg CompareConfig) {
	current := row.Periods[cfg.Current]
	baseline := row.Periods[cfg.Baseline]

	row.Deltas = make(domain.MetricSet, len(cfg.Metrics))
	for _, m := range cfg.Metrics {
		row.Deltas[m] = current.Get(m).Sub(baseline.Get(m))
	}

	row.Growth = make(domain.MetricSet, len(cfg.GrowthMetrics))
	for _, m := range cfg.GrowthMetrics {
		row.Growth[m] = Growth(current.Get(m), baseline.Get(m))
	}

	row.Ratios = make(map[string]domain.MetricSet, len(cfg.Periods))
	if len(cfg.Ratios) == 0 {
		return
	}
	for _, p := range cfg.Periods {
		set := make(domain.MetricSet, len(cfg.Ratios))
		values := row.Periods[p]
		for _, r := range cfg.Ratios {
			set[r.Name] = Ratio(values.Get(r.Numerator), values.Get(r.Denominator))
		}
		row.Ratios[p] = set
	}
}

// Growth is the percentage change from baseline to current, rounded to two
// places. A zero baseline yields zero.
func Growth(current, baseline decimal.Decimal) decimal.Decimal {
	if baseline.IsZero() {
		return decimal.Zero
	}
	return current.Sub(baseline).Div(baseline).Mul(hundred).Round(Places)
}

// Ratio divides num by den rounded to two places, zero when den is zero.
func Ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Round(Places)
}

// Share is part as a percentage of total rounded to two places, zero when total
// is zero.
func Share(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(Places)
}
