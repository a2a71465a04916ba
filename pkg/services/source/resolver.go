package source

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/de-tools/sales-atlas/pkg/services/config"
	"github.com/de-tools/sales-atlas/pkg/services/report"
	"github.com/de-tools/sales-atlas/pkg/store/cache"
	"github.com/de-tools/sales-atlas/pkg/store/client"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb/records"
	"github.com/de-tools/sales-atlas/pkg/store/file"
	"github.com/de-tools/sales-atlas/pkg/store/objectstore"
	sqlstore "github.com/de-tools/sales-atlas/pkg/store/sql"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// Dependencies are the collaborators sources are built from. Any of them may be
// nil when the configured bindings do not need it.
type Dependencies struct {
	Profiles  config.Profiles
	Extractor file.Extractor
	Records   records.Store
	S3        objectstore.GetObjectAPI
	Cache     *cache.Cache
}

// Resolver builds row sources from the configured source bindings. Source types
// without a binding fall back to imported records when a record store is set.
type Resolver struct {
	bindings []config.SourceBinding
	deps     Dependencies

	mu  sync.Mutex
	dbs map[string]*sqlx.DB
	s3  map[string]objectstore.GetObjectAPI // region -> client
}

func NewResolver(bindings []config.SourceBinding, deps Dependencies) *Resolver {
	return &Resolver{
		bindings: bindings,
		deps:     deps,
		dbs:      make(map[string]*sqlx.DB),
		s3:       make(map[string]objectstore.GetObjectAPI),
	}
}

func (r *Resolver) Resolve(ctx context.Context, sourceType string) (report.RowSource, error) {
	binding, ok := r.binding(sourceType)
	if !ok {
		if r.deps.Records == nil {
			return nil, fmt.Errorf("no source bound to %s", sourceType)
		}
		binding = config.SourceBinding{SourceType: sourceType, Kind: config.KindDuckDB, NoCache: true}
	}

	src, err := r.build(ctx, binding)
	if err != nil {
		return nil, err
	}

	if r.deps.Cache != nil && !binding.NoCache {
		return r.deps.Cache.Wrap(binding.Kind+":"+sourceType, src), nil
	}
	return src, nil
}

func (r *Resolver) binding(sourceType string) (config.SourceBinding, bool) {
	for _, b := range r.bindings {
		if b.SourceType == sourceType {
			return b, true
		}
	}
	return config.SourceBinding{}, false
}

func (r *Resolver) build(ctx context.Context, b config.SourceBinding) (report.RowSource, error) {
	switch b.Kind {
	case config.KindSQL:
		db, err := r.database(b.Profile)
		if err != nil {
			return nil, err
		}
		src, err := sqlstore.NewTableSource(db, b.Table)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", b.SourceType, err)
		}
		return src, nil
	case config.KindFile:
		if r.deps.Extractor == nil {
			return nil, fmt.Errorf("source %s: file binding needs an extractor", b.SourceType)
		}
		return file.NewSource(b.Path, b.Sheet, b.SourceType, r.deps.Extractor), nil
	case config.KindS3:
		if r.deps.Extractor == nil {
			return nil, fmt.Errorf("source %s: s3 binding needs an extractor", b.SourceType)
		}
		s3, err := r.s3Client(ctx, b.Region)
		if err != nil {
			return nil, err
		}
		return objectstore.NewS3Source(s3, b.Bucket, b.Key, b.Sheet, b.SourceType, r.deps.Extractor), nil
	case config.KindDuckDB:
		if r.deps.Records == nil {
			return nil, fmt.Errorf("source %s: no record store configured", b.SourceType)
		}
		return r.deps.Records.Source(b.SourceType), nil
	default:
		return nil, fmt.Errorf("source %s: unknown kind %q", b.SourceType, b.Kind)
	}
}

// database opens one pool per profile and reuses it.
func (r *Resolver) database(profile string) (*sqlx.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if db, ok := r.dbs[profile]; ok {
		return db, nil
	}
	if r.deps.Profiles == nil {
		return nil, fmt.Errorf("profile %s: no profiles file configured", profile)
	}

	p, err := r.deps.Profiles.Get(profile)
	if err != nil {
		return nil, err
	}
	db, err := client.Open(p)
	if err != nil {
		return nil, err
	}
	r.dbs[profile] = db
	return db, nil
}

func (r *Resolver) s3Client(ctx context.Context, region string) (objectstore.GetObjectAPI, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deps.S3 != nil {
		return r.deps.S3, nil
	}
	if c, ok := r.s3[region]; ok {
		return c, nil
	}
	c, err := objectstore.NewS3Client(ctx, region)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Str("region", region).Msg("created s3 client")
	r.s3[region] = c
	return c, nil
}

// Close releases every database pool opened by the resolver.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, db := range r.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(r.dbs, name)
	}
	return errors.Join(errs...)
}
