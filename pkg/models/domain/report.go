package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RowKind int

const (
	RowKindLeaf RowKind = iota
	RowKindSubtotal
	RowKindGrandTotal
)

func (k RowKind) String() string {
	switch k {
	case RowKindSubtotal:
		return "subtotal"
	case RowKindGrandTotal:
		return "grand_total"
	default:
		return "leaf"
	}
}

type ColumnKind string

const (
	ColumnKindMetric ColumnKind = "metric"
	ColumnKindRatio  ColumnKind = "ratio"
	ColumnKindDelta  ColumnKind = "delta"
	ColumnKindGrowth ColumnKind = "growth"
	ColumnKindShare  ColumnKind = "share"
)

const (
	HeaderDelta  = "Delta"
	HeaderGrowth = "Growth %"
	HeaderShare  = "Share %"

	GrandTotalLabel = "Grand Total"
)

// HeaderCell is one column of the two-tier header. Outer is the period name for
// metric and ratio columns; renderers turn Date into a human label.
type HeaderCell struct {
	Outer  string
	Inner  string
	Kind   ColumnKind
	Period string
	Date   time.Time
	Metric string
}

// ComparisonRow is a leaf, subtotal or grand total row of a report.
type ComparisonRow struct {
	Kind    RowKind
	Key     []string
	Labels  []string
	Periods map[string]MetricSet // period name -> metric -> value
	Ratios  map[string]MetricSet // period name -> ratio -> value
	Deltas  MetricSet
	Growth  MetricSet
	Share   decimal.Decimal // percent of the grand total on the ranking metric
	Values  []decimal.Decimal // aligned with ReportTable.Header
}

// Value returns metric for period, zero when absent.
func (r ComparisonRow) Value(period, metric string) decimal.Decimal {
	return r.Periods[period].Get(metric)
}

// ReportStats counts what happened to input records on their way into the table.
type ReportStats struct {
	Input          int
	Normalized     int
	InvalidDate    int
	OutsidePeriods int
}

// ReportTable is the presentation-ready result of a comparison report.
type ReportTable struct {
	Title           string
	Dimensions      []string
	DimensionLabels []string
	Periods         []Period
	Current         string
	Baseline        string
	RankingMetric   string
	Metrics         []string
	Header          []HeaderCell
	Rows            []ComparisonRow
	Stats           ReportStats
}

// Period returns the resolved period with the given name.
func (t *ReportTable) Period(name string) (Period, bool) {
	for _, p := range t.Periods {
		if p.Name == name {
			return p, true
		}
	}
	return Period{}, false
}

// GrandTotal returns the last row when it is the grand total.
func (t *ReportTable) GrandTotal() (ComparisonRow, bool) {
	if len(t.Rows) == 0 {
		return ComparisonRow{}, false
	}
	last := t.Rows[len(t.Rows)-1]
	return last, last.Kind == RowKindGrandTotal
}
