package comparison

import (
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// HeaderConfig lists the columns of a report in display order.
type HeaderConfig struct {
	Periods       []domain.Period
	Metrics       []string
	GrowthMetrics []string
	Ratios        []domain.RatioSpec
	Display       map[string]string // metric role -> display name

	// ShareMetric adds a trailing share-of-total column when set.
	ShareMetric string
	SharePeriod string
}

func (c HeaderConfig) display(metric string) string {
	if d, ok := c.Display[metric]; ok && d != "" {
		return d
	}
	return metric
}

// BuildHeader lays out each period's metrics and ratios, then the deltas, then
// the growth columns and the optional share column.
func BuildHeader(cfg HeaderConfig) []domain.HeaderCell {
	header := make([]domain.HeaderCell, 0,
		len(cfg.Periods)*(len(cfg.Metrics)+len(cfg.Ratios))+len(cfg.Metrics)+len(cfg.GrowthMetrics))

	for _, p := range cfg.Periods {
		for _, m := range cfg.Metrics {
			header = append(header, domain.HeaderCell{
				Outer:  p.Name,
				Inner:  cfg.display(m),
				Kind:   domain.ColumnKindMetric,
				Period: p.Name,
				Date:   p.Date,
				Metric: m,
			})
		}
		for _, r := range cfg.Ratios {
			header = append(header, domain.HeaderCell{
				Outer:  p.Name,
				Inner:  r.DisplayName(),
				Kind:   domain.ColumnKindRatio,
				Period: p.Name,
				Date:   p.Date,
				Metric: r.Name,
			})
		}
	}
	for _, m := range cfg.Metrics {
		header = append(header, domain.HeaderCell{
			Outer:  domain.HeaderDelta,
			Inner:  cfg.display(m),
			Kind:   domain.ColumnKindDelta,
			Metric: m,
		})
	}
	for _, m := range cfg.GrowthMetrics {
		header = append(header, domain.HeaderCell{
			Outer:  domain.HeaderGrowth,
			Inner:  cfg.display(m),
			Kind:   domain.ColumnKindGrowth,
			Metric: m,
		})
	}
	if cfg.ShareMetric != "" {
		header = append(header, domain.HeaderCell{
			Outer:  domain.HeaderShare,
			Inner:  cfg.display(cfg.ShareMetric),
			Kind:   domain.ColumnKindShare,
			Period: cfg.SharePeriod,
			Metric: cfg.ShareMetric,
		})
	}
	return header
}

// FillValues aligns every row's values with header.
func FillValues(rows []domain.ComparisonRow, header []domain.HeaderCell) {
	for i := range rows {
		values := make([]decimal.Decimal, len(header))
		for j, cell := range header {
			values[j] = cellValue(rows[i], cell)
		}
		rows[i].Values = values
	}
}

func cellValue(row domain.ComparisonRow, cell domain.HeaderCell) decimal.Decimal {
	switch cell.Kind {
	case domain.ColumnKindRatio:
		return row.Ratios[cell.Period].Get(cell.Metric)
	case domain.ColumnKindDelta:
		return row.Deltas.Get(cell.Metric)
	case domain.ColumnKindGrowth:
		return row.Growth.Get(cell.Metric)
	case domain.ColumnKindShare:
		return row.Share
	default:
		return row.Value(cell.Period, cell.Metric)
	}
}
