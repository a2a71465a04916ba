package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/services/comparison"
	"github.com/de-tools/sales-atlas/pkg/services/config"
	"github.com/de-tools/sales-atlas/pkg/services/digest"
	"github.com/de-tools/sales-atlas/pkg/services/report"
	"github.com/de-tools/sales-atlas/pkg/services/schema"
	"github.com/de-tools/sales-atlas/pkg/services/source"
	"github.com/de-tools/sales-atlas/pkg/store/cache"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	digeststore "github.com/de-tools/sales-atlas/pkg/store/duckdb/digest"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb/records"
	"github.com/de-tools/sales-atlas/pkg/store/file"
	"github.com/rs/zerolog"
)

var ErrDigestDisabled = errors.New("digest is disabled: digest.api_key is not set")

// App holds the services both binaries are built from.
type App struct {
	Config     *config.Config
	Normalizer *schema.Normalizer
	Records    records.Store
	Reports    report.Controller
	// Digest is nil when no SendGrid key is configured.
	Digest *digest.Service

	db       *sql.DB
	cache    *cache.Cache
	resolver *source.Resolver
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := zerolog.Ctx(ctx)

	provider := schema.DefaultProvider()
	if cfg.Mappings != "" {
		p, err := schema.LoadMappings(cfg.Mappings)
		if err != nil {
			return nil, err
		}
		provider = p
	}
	normalizer := schema.NewNormalizer(provider)

	defs := report.DefaultDefinitions()
	if cfg.Reports != "" {
		loaded, err := report.LoadDefinitions(cfg.Reports)
		if err != nil {
			return nil, err
		}
		defs = loaded
	}
	registry, err := report.NewRegistry(defs...)
	if err != nil {
		return nil, fmt.Errorf("failed to create report registry: %w", err)
	}

	var profiles config.Profiles
	if cfg.Profiles != "" {
		profiles, err = config.NewProfiles(cfg.Profiles)
		if err != nil {
			return nil, err
		}
		logger.Info().Strs("profiles", profiles.Names()).Msg("datasource profiles loaded")
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.DuckDB.Path})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	recordStore, err := records.NewStore(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create record store: %w", err)
	}

	var rowCache *cache.Cache
	if cfg.Cache.TTL > 0 {
		rowCache = cache.New(cfg.Cache.Size, cfg.Cache.TTL)
	}

	resolver := source.NewResolver(cfg.Sources, source.Dependencies{
		Profiles:  profiles,
		Extractor: normalizer,
		Records:   recordStore,
		Cache:     rowCache,
	})

	a := &App{
		Config:     cfg,
		Normalizer: normalizer,
		Records:    recordStore,
		Reports:    report.NewController(registry, resolver, comparison.NewEngine(normalizer)),
		db:         db,
		cache:      rowCache,
		resolver:   resolver,
	}

	if cfg.Digest.APIKey != "" {
		if err := a.setupDigest(); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *App) setupDigest() error {
	sender, err := digest.NewSendGridSender(a.Config.Digest.APIKey)
	if err != nil {
		return err
	}
	runs, err := digeststore.NewStore(a.db)
	if err != nil {
		return fmt.Errorf("failed to create digest store: %w", err)
	}
	svc, err := digest.NewService(a.Reports, sender, runs, digest.Config{
		Report:  a.Config.Digest.Report,
		Subject: a.Config.Digest.Subject,
		From:    a.Config.Digest.From,
		To:      a.Config.Digest.To,
	})
	if err != nil {
		return err
	}
	a.Digest = svc
	return nil
}

// Import stores the rows of a CSV or XLSX export as the latest batch of
// sourceType.
func (a *App) Import(ctx context.Context, sourceType, path, sheet string) (*store.ImportBatch, error) {
	recs, err := file.Load(ctx, path, sheet, sourceType, a.Normalizer)
	if err != nil {
		return nil, err
	}
	batch, err := a.Records.Add(ctx, sourceType, filepath.Base(path), recs)
	if err != nil {
		return nil, err
	}
	if a.cache != nil {
		a.cache.Purge()
	}
	zerolog.Ctx(ctx).Info().
		Str("source_type", sourceType).
		Str("batch", batch.ID).
		Int("rows", batch.Rows).
		Msg("file imported")
	return batch, nil
}

func (a *App) Run(ctx context.Context, name string, anchor time.Time) (*domain.ReportTable, error) {
	return a.Reports.Run(ctx, name, anchor)
}

func (a *App) Definitions() []report.Definition {
	return a.Reports.Definitions()
}

// SendDigest delivers the configured digest for anchor, zero meaning the
// latest day with data.
func (a *App) SendDigest(ctx context.Context, anchor time.Time) (*store.DigestRun, error) {
	if a.Digest == nil {
		return nil, ErrDigestDisabled
	}
	return a.Digest.Send(ctx, anchor)
}

func (a *App) Close() error {
	return errors.Join(a.resolver.Close(), a.db.Close())
}
