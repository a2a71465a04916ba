package comparison

import (
	"context"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/schema"
	"github.com/rs/zerolog"
)

// Input is one source's raw rows. Inputs earlier in the list win label
// coalescing over later ones.
type Input struct {
	SourceType string
	Records    []domain.RawRecord
}

// Spec describes one comparison report.
type Spec struct {
	Title         string
	Dimensions    []string
	Periods       []domain.PeriodSpec
	Anchor        time.Time // zero means the latest record date
	Current       string
	Baseline      string
	RankingMetric string
	RankingPeriod string
	Metrics       []string
	GrowthMetrics []string
	Ratios        []domain.RatioSpec
	FoldKeys      bool
	Share         bool // add each row's share of the grand total
}

// Engine turns raw rows into a ranked comparison table. It keeps no state
// between calls.
type Engine struct {
	normalizer *schema.Normalizer
}

func NewEngine(normalizer *schema.Normalizer) *Engine {
	if normalizer == nil {
		normalizer = schema.NewNormalizer(nil)
	}
	return &Engine{normalizer: normalizer}
}

// Normalizer exposes the schema normalizer the engine was built with.
func (e *Engine) Normalizer() *schema.Normalizer {
	return e.normalizer
}

// BuildComparisonReport runs the whole pipeline. Any failing stage aborts the
// call without a table.
func (e *Engine) BuildComparisonReport(ctx context.Context, spec Spec, inputs ...Input) (*domain.ReportTable, error) {
	logger := zerolog.Ctx(ctx)

	if len(inputs) == 0 {
		return nil, invalid("inputs", "at least one source is required")
	}

	mappings := make([]domain.SourceMapping, 0, len(inputs))
	for _, in := range inputs {
		m, err := e.normalizer.Provider().Mapping(in.SourceType)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}

	p, err := validate(spec, mappings)
	if err != nil {
		return nil, err
	}

	var stats domain.ReportStats
	var normalized []domain.NormalizedRecord
	for i, in := range inputs {
		records, st, err := e.normalizer.Normalize(ctx, in.SourceType, in.Records)
		if err != nil {
			return nil, err
		}
		for j := range records {
			records[j].SourceIndex = i
		}
		normalized = append(normalized, records...)
		stats.Input += st.Input
		stats.Normalized += st.Normalized
		stats.InvalidDate += st.InvalidDate
	}
	normalized = Coalesce(normalized)

	anchor := spec.Anchor
	if anchor.IsZero() {
		anchor, _ = latestDate(normalized)
	}
	periods := ResolvePeriods(spec.Periods, anchor)

	buckets, err := Aggregate(normalized, p.dims, periods, p.metrics, spec.FoldKeys)
	if err != nil {
		return nil, err
	}
	stats.OutsidePeriods = buckets.Dropped

	cfg := CompareConfig{
		Periods:       periodNames(periods),
		Current:       spec.Current,
		Baseline:      spec.Baseline,
		Metrics:       p.metrics,
		GrowthMetrics: p.growth,
		Ratios:        spec.Ratios,
	}

	leaves := Pivot(buckets, periods, p.metrics)
	for i := range leaves {
		Compare(&leaves[i], cfg)
	}
	groups, grand := Summarize(leaves, cfg)
	rankCfg := RankConfig{Metric: p.rankingMetric, Period: p.rankingPeriod}
	rows := Rank(leaves, groups, grand, rankCfg)

	hcfg := HeaderConfig{
		Periods:       periods,
		Metrics:       p.metrics,
		GrowthMetrics: p.growth,
		Ratios:        spec.Ratios,
		Display:       p.display,
	}
	if spec.Share {
		ApplyShare(rows, rankCfg)
		hcfg.ShareMetric = p.rankingMetric
		hcfg.SharePeriod = p.rankingPeriod
	}
	header := BuildHeader(hcfg)
	FillValues(rows, header)

	logger.Debug().
		Str("report", spec.Title).
		Int("input", stats.Input).
		Int("normalized", stats.Normalized).
		Int("outside_periods", stats.OutsidePeriods).
		Int("keys", buckets.Len()).
		Int("rows", len(rows)).
		Msg("built comparison report")

	return &domain.ReportTable{
		Title:           spec.Title,
		Dimensions:      p.dims,
		DimensionLabels: p.dimLabels,
		Periods:         periods,
		Current:         spec.Current,
		Baseline:        spec.Baseline,
		RankingMetric:   p.rankingMetric,
		Metrics:         p.metrics,
		Header:          header,
		Rows:            rows,
		Stats:           stats,
	}, nil
}
