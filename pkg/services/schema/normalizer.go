package schema

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Stats reports what Normalize kept and dropped.
type Stats struct {
	Input       int
	Normalized  int
	InvalidDate int
}

// Normalizer rewrites raw rows of a source type into canonical records.
type Normalizer struct {
	provider MappingProvider
}

func NewNormalizer(provider MappingProvider) *Normalizer {
	if provider == nil {
		provider = DefaultProvider()
	}
	return &Normalizer{provider: provider}
}

// Provider returns the mapping provider the normalizer resolves source types with.
func (n *Normalizer) Provider() MappingProvider {
	return n.provider
}

// Normalize maps records of sourceType onto canonical roles. Records whose date
// cannot be parsed are dropped; unparsable metrics become zero.
func (n *Normalizer) Normalize(
	ctx context.Context,
	sourceType string,
	records []domain.RawRecord,
) ([]domain.NormalizedRecord, Stats, error) {
	logger := zerolog.Ctx(ctx)
	stats := Stats{Input: len(records)}

	mapping, err := n.provider.Mapping(sourceType)
	if err != nil {
		return nil, stats, err
	}
	if len(records) == 0 {
		return []domain.NormalizedRecord{}, stats, nil
	}

	columns := resolveColumns(mapping, records)
	dateField, _ := firstOfKind(mapping, domain.FieldKindDate)
	dateCol, ok := columns[dateField.Role]
	if !ok {
		return nil, stats, &domain.SchemaError{
			SourceType: sourceType,
			Reason:     fmt.Sprintf("no date column among %v", sortedColumns(records)),
		}
	}

	dims := mapping.FieldsOf(domain.FieldKindDimension)
	metrics := mapping.FieldsOf(domain.FieldKindMetric)
	channel := mapping.ChannelName()

	out := make([]domain.NormalizedRecord, 0, len(records))
	for _, rec := range records {
		date, ok := ParseDate(rec[dateCol])
		if !ok {
			stats.InvalidDate++
			continue
		}

		nr := domain.NormalizedRecord{
			SourceType: sourceType,
			Channel:    channel,
			Date:       date,
			Dimensions: make(map[string]string, len(dims)+1),
			Metrics:    make(domain.MetricSet, len(metrics)),
		}
		for _, f := range dims {
			if col, ok := columns[f.Role]; ok {
				nr.Dimensions[f.Role] = cellString(rec[col])
			}
		}
		nr.Dimensions[domain.ChannelRole] = channel
		for _, f := range metrics {
			if col, ok := columns[f.Role]; ok {
				nr.Metrics[f.Role] = ParseMetric(rec[col])
			} else {
				nr.Metrics[f.Role] = ParseMetric(nil)
			}
		}
		out = append(out, nr)
	}
	stats.Normalized = len(out)

	logger.Debug().
		Str("source", sourceType).
		Int("input", stats.Input).
		Int("normalized", stats.Normalized).
		Int("invalid_date", stats.InvalidDate).
		Msg("normalized records")

	return out, stats, nil
}

// resolveColumns picks, for each field, the first synonym present among the
// record columns. The role name itself is the last synonym tried.
func resolveColumns(mapping domain.SourceMapping, records []domain.RawRecord) map[string]string {
	folded := make(map[string]string)
	for _, col := range sortedColumns(records) {
		key := FoldHeader(col)
		if _, exists := folded[key]; !exists {
			folded[key] = col
		}
	}

	resolved := make(map[string]string, len(mapping.Fields))
	for _, f := range mapping.Fields {
		candidates := append(append([]string{}, f.Synonyms...), f.Role)
		for _, syn := range candidates {
			if col, ok := folded[FoldHeader(syn)]; ok {
				resolved[f.Role] = col
				break
			}
		}
	}
	return resolved
}

func sortedColumns(records []domain.RawRecord) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for col := range rec {
			seen[col] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func firstOfKind(mapping domain.SourceMapping, kind domain.FieldKind) (domain.FieldSpec, bool) {
	fields := mapping.FieldsOf(kind)
	if len(fields) == 0 {
		return domain.FieldSpec{}, false
	}
	return fields[0], true
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
