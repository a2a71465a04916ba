package comparison

import (
	"fmt"
	"slices"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

// plan is a validated Spec with its defaults filled in.
type plan struct {
	dims          []string
	dimLabels     []string
	metrics       []string
	growth        []string
	rankingMetric string
	rankingPeriod string
	display       map[string]string
}

func invalid(field, format string, args ...any) error {
	return &domain.ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func validate(spec Spec, mappings []domain.SourceMapping) (*plan, error) {
	p := &plan{
		dims:    spec.Dimensions,
		display: make(map[string]string),
	}

	if len(spec.Dimensions) == 0 || len(spec.Dimensions) > MaxDepth {
		return nil, invalid("dimensions", "expected 1 to %d roles, got %d", MaxDepth, len(spec.Dimensions))
	}
	for _, dim := range spec.Dimensions {
		label, ok := dimensionLabel(dim, mappings)
		if !ok {
			return nil, invalid("dimensions", "role %q is not mapped by any source", dim)
		}
		p.dimLabels = append(p.dimLabels, label)
	}

	if len(spec.Periods) == 0 {
		return nil, invalid("periods", "at least one period is required")
	}
	names := make([]string, 0, len(spec.Periods))
	for _, ps := range spec.Periods {
		if ps.Name == "" {
			return nil, invalid("periods", "period name is empty")
		}
		if slices.Contains(names, ps.Name) {
			return nil, invalid("periods", "period %q is defined twice", ps.Name)
		}
		names = append(names, ps.Name)
	}
	if !slices.Contains(names, spec.Current) {
		return nil, invalid("current", "period %q is not configured", spec.Current)
	}
	if !slices.Contains(names, spec.Baseline) {
		return nil, invalid("baseline", "period %q is not configured", spec.Baseline)
	}
	p.rankingPeriod = spec.RankingPeriod
	if p.rankingPeriod == "" {
		p.rankingPeriod = spec.Current
	}
	if !slices.Contains(names, p.rankingPeriod) {
		return nil, invalid("ranking_period", "period %q is not configured", p.rankingPeriod)
	}

	mapped := mappedMetrics(mappings, p.display)
	if len(spec.Metrics) > 0 {
		for _, m := range spec.Metrics {
			if !slices.Contains(mapped, m) {
				return nil, invalid("metrics", "metric %q is not mapped by any source", m)
			}
		}
		p.metrics = spec.Metrics
	} else {
		p.metrics = mapped
	}
	if len(p.metrics) == 0 {
		return nil, invalid("metrics", "no metrics to compare")
	}

	p.rankingMetric = spec.RankingMetric
	if p.rankingMetric == "" {
		p.rankingMetric = p.metrics[0]
	}
	if !slices.Contains(p.metrics, p.rankingMetric) {
		return nil, invalid("ranking_metric", "metric %q is not in the metric set", p.rankingMetric)
	}

	p.growth = spec.GrowthMetrics
	if len(p.growth) == 0 {
		p.growth = []string{p.rankingMetric}
	}
	for _, m := range p.growth {
		if !slices.Contains(p.metrics, m) {
			return nil, invalid("growth_metrics", "metric %q is not in the metric set", m)
		}
	}

	for _, r := range spec.Ratios {
		if r.Name == "" {
			return nil, invalid("ratios", "ratio name is empty")
		}
		for _, operand := range []string{r.Numerator, r.Denominator} {
			if !slices.Contains(p.metrics, operand) {
				return nil, invalid("ratios", "ratio %q uses metric %q which is not in the metric set", r.Name, operand)
			}
		}
	}

	return p, nil
}

func dimensionLabel(role string, mappings []domain.SourceMapping) (string, bool) {
	if role == domain.ChannelRole {
		return "Channel", true
	}
	for _, m := range mappings {
		if f, ok := m.Field(role); ok && f.Kind == domain.FieldKindDimension {
			return f.DisplayName(), true
		}
	}
	return "", false
}

// mappedMetrics returns the union of metric roles in mapping order and records
// the first display name seen for each.
func mappedMetrics(mappings []domain.SourceMapping, display map[string]string) []string {
	var out []string
	for _, m := range mappings {
		for _, f := range m.FieldsOf(domain.FieldKindMetric) {
			if _, seen := display[f.Role]; seen {
				continue
			}
			display[f.Role] = f.DisplayName()
			out = append(out, f.Role)
		}
	}
	return out
}
