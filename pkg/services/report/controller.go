package report

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/comparison"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// RowSource supplies the raw rows of one source type.
type RowSource interface {
	Fetch(ctx context.Context) ([]domain.RawRecord, error)
}

// SourceResolver finds the row source bound to a source type.
type SourceResolver interface {
	Resolve(ctx context.Context, sourceType string) (RowSource, error)
}

type Controller interface {
	// Run builds report name anchored at anchor; a zero anchor uses the latest
	// record date.
	Run(ctx context.Context, name string, anchor time.Time) (*domain.ReportTable, error)
	Definitions() []Definition
}

type controller struct {
	registry Registry
	resolver SourceResolver
	engine   *comparison.Engine
}

func NewController(registry Registry, resolver SourceResolver, engine *comparison.Engine) Controller {
	return &controller{
		registry: registry,
		resolver: resolver,
		engine:   engine,
	}
}

func (c *controller) Definitions() []Definition {
	return c.registry.List()
}

func (c *controller) Run(ctx context.Context, name string, anchor time.Time) (*domain.ReportTable, error) {
	def, err := c.registry.Get(name)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("report", name).Logger()
	ctx = logger.WithContext(ctx)

	sources := make([]RowSource, len(def.Sources))
	for i, sourceType := range def.Sources {
		src, err := c.resolver.Resolve(ctx, sourceType)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve source %s: %w", sourceType, err)
		}
		sources[i] = src
	}

	inputs := make([]comparison.Input, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		sourceType := def.Sources[i]
		g.Go(func() error {
			records, err := src.Fetch(gctx)
			if err != nil {
				return fmt.Errorf("failed to fetch %s: %w", sourceType, err)
			}
			inputs[i] = comparison.Input{SourceType: sourceType, Records: records}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("failed to fetch report sources")
		return nil, err
	}

	started := time.Now()
	table, err := c.engine.BuildComparisonReport(ctx, def.Spec(anchor), inputs...)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("rows", len(table.Rows)).
		Int("records", table.Stats.Input).
		Dur("elapsed", time.Since(started)).
		Msg("report built")

	return table, nil
}
