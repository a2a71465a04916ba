package comparison

import "github.com/de-tools/sales-atlas/pkg/models/domain"

// Pivot emits one leaf row per observed key with every period present, zero
// filled where the key had no data.
func Pivot(b *Buckets, periods []domain.Period, metrics []string) []domain.ComparisonRow {
	keys := b.Keys()
	rows := make([]domain.ComparisonRow, 0, len(keys))
	for _, key := range keys {
		row := domain.ComparisonRow{
			Kind:    domain.RowKindLeaf,
			Key:     key,
			Labels:  b.Labels(key),
			Periods: make(map[string]domain.MetricSet, len(periods)),
		}
		for _, p := range periods {
			set := make(domain.MetricSet, len(metrics))
			bucket, _ := b.Get(key, p.Name)
			for _, m := range metrics {
				set[m] = bucket.Get(m)
			}
			row.Periods[p.Name] = set
		}
		rows = append(rows, row)
	}
	return rows
}
