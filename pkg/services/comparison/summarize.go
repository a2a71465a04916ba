package comparison

import (
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// TotalSuffix is appended to a group label on its subtotal row.
const TotalSuffix = " Total"

// Summarize builds one subtotal per top-level key and the grand total. Both sum
// the raw period metrics of leaves only; derived values are recomputed.
func Summarize(leaves []domain.ComparisonRow, cfg CompareConfig) (map[string]*domain.ComparisonRow, domain.ComparisonRow) {
	depth := 1
	if len(leaves) > 0 {
		depth = len(leaves[0].Key)
	}

	groups := make(map[string]*domain.ComparisonRow)
	for i := range leaves {
		leaf := &leaves[i]
		top := leaf.Key[0]
		group, ok := groups[top]
		if !ok {
			labels := make([]string, depth)
			labels[0] = leaf.Labels[0] + TotalSuffix
			group = &domain.ComparisonRow{
				Kind:    domain.RowKindSubtotal,
				Key:     []string{top},
				Labels:  labels,
				Periods: zeroPeriods(cfg),
			}
			groups[top] = group
		}
		addPeriods(group.Periods, leaf.Periods, cfg)
	}
	for _, group := range groups {
		Compare(group, cfg)
	}

	labels := make([]string, depth)
	labels[0] = domain.GrandTotalLabel
	grand := domain.ComparisonRow{
		Kind:    domain.RowKindGrandTotal,
		Labels:  labels,
		Periods: zeroPeriods(cfg),
	}
	for i := range leaves {
		addPeriods(grand.Periods, leaves[i].Periods, cfg)
	}
	Compare(&grand, cfg)

	return groups, grand
}

func zeroPeriods(cfg CompareConfig) map[string]domain.MetricSet {
	out := make(map[string]domain.MetricSet, len(cfg.Periods))
	for _, p := range cfg.Periods {
		set := make(domain.MetricSet, len(cfg.Metrics))
		for _, m := range cfg.Metrics {
			set[m] = decimal.Zero
		}
		out[p] = set
	}
	return out
}

func addPeriods(dst, src map[string]domain.MetricSet, cfg CompareConfig) {
	for _, p := range cfg.Periods {
		for _, m := range cfg.Metrics {
			dst[p][m] = dst[p][m].Add(src[p].Get(m))
		}
	}
}
