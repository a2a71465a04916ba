package comparison

import (
	"sort"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// RankConfig names the metric and period rows are ordered by.
type RankConfig struct {
	Metric string
	Period string
}

// Rank orders groups by their subtotal and leaves within each group, both
// descending on the ranking value with ties broken by key. Each group emits its
// leaves and then its subtotal; the grand total comes last. Single level reports
// carry no subtotal rows since each one would repeat its leaf.
func Rank(
	leaves []domain.ComparisonRow,
	groups map[string]*domain.ComparisonRow,
	grand domain.ComparisonRow,
	cfg RankConfig,
) []domain.ComparisonRow {
	depth := 1
	if len(leaves) > 0 {
		depth = len(leaves[0].Key)
	}

	children := make(map[string][]domain.ComparisonRow, len(groups))
	for _, leaf := range leaves {
		children[leaf.Key[0]] = append(children[leaf.Key[0]], leaf)
	}

	subtotals := make([]domain.ComparisonRow, 0, len(groups))
	for _, g := range groups {
		subtotals = append(subtotals, *g)
	}
	sortRows(subtotals, cfg)

	out := make([]domain.ComparisonRow, 0, len(leaves)+len(groups)+1)
	for _, group := range subtotals {
		rows := children[group.Key[0]]
		sortRows(rows, cfg)
		out = append(out, rows...)
		if depth > 1 {
			out = append(out, group)
		}
	}
	return append(out, grand)
}

func sortRows(rows []domain.ComparisonRow, cfg RankConfig) {
	sort.SliceStable(rows, func(i, j int) bool {
		vi, vj := rankValue(rows[i], cfg), rankValue(rows[j], cfg)
		if !vi.Equal(vj) {
			return vi.GreaterThan(vj)
		}
		return lessKey(rows[i].Key, rows[j].Key)
	})
}

func rankValue(row domain.ComparisonRow, cfg RankConfig) decimal.Decimal {
	return row.Value(cfg.Period, cfg.Metric)
}

func lessKey(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// ApplyShare sets each row's share of the grand total on the ranking value.
// rows must end with the grand total.
func ApplyShare(rows []domain.ComparisonRow, cfg RankConfig) {
	if len(rows) == 0 {
		return
	}
	total := rankValue(rows[len(rows)-1], cfg)
	for i := range rows {
		rows[i].Share = Share(rankValue(rows[i], cfg), total)
	}
}
