package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/config"
	"github.com/de-tools/sales-atlas/pkg/services/schema"
	"github.com/de-tools/sales-atlas/pkg/store/cache"
	"github.com/de-tools/sales-atlas/pkg/store/client"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProfiles map[string]domain.Profile

func (p staticProfiles) Names() []string {
	names := make([]string, 0, len(p))
	for n := range p {
		names = append(names, n)
	}
	return names
}

func (p staticProfiles) Get(name string) (domain.Profile, error) {
	profile, ok := p[name]
	if !ok {
		return domain.Profile{}, fmt.Errorf("profile %s not found", name)
	}
	return profile, nil
}

func sqliteProfile(t *testing.T) domain.Profile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.sqlite")
	profile := domain.Profile{Name: "local", Driver: client.DriverSQLite, DSN: path}

	db, err := client.Open(profile)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE amazon_sales (date TEXT, product TEXT, units_sold INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO amazon_sales VALUES ('2025-01-15', 'Pads', 3)`)
	require.NoError(t, err)
	return profile
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	normalizer := schema.NewNormalizer(schema.DefaultProvider())

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	recordStore, err := records.NewStore(db)
	require.NoError(t, err)
	_, err = recordStore.Add(ctx, "swiggy_sales", "upload.csv", []domain.RawRecord{{"date": "2025-01-15", "item_name": "Cups"}})
	require.NoError(t, err)

	csvPath := filepath.Join(t.TempDir(), "flipkart.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Order Date,SKU ID,Final Sale Units\n15-01-2025,fk-1,2\n"), 0o644))

	bindings := []config.SourceBinding{
		{SourceType: "amazon_sales", Kind: config.KindSQL, Profile: "local", Table: "amazon_sales"},
		{SourceType: "flipkart_sales", Kind: config.KindFile, Path: csvPath},
		{SourceType: "shopify_sales", Kind: config.KindSQL, Profile: "missing", Table: "orders"},
	}

	resolver := NewResolver(bindings, Dependencies{
		Profiles:  staticProfiles{"local": sqliteProfile(t)},
		Extractor: normalizer,
		Records:   recordStore,
		Cache:     cache.New(8, time.Minute),
	})
	t.Cleanup(func() { assert.NoError(t, resolver.Close()) })

	t.Run("sql binding", func(t *testing.T) {
		src, err := resolver.Resolve(ctx, "amazon_sales")
		require.NoError(t, err)
		assert.IsType(t, &cache.Source{}, src)

		rows, err := src.Fetch(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Pads", rows[0]["product"])
	})

	t.Run("file binding", func(t *testing.T) {
		src, err := resolver.Resolve(ctx, "flipkart_sales")
		require.NoError(t, err)

		rows, err := src.Fetch(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "fk-1", rows[0]["SKU ID"])
	})

	t.Run("unbound source falls back to imports", func(t *testing.T) {
		src, err := resolver.Resolve(ctx, "swiggy_sales")
		require.NoError(t, err)
		assert.IsType(t, &records.Source{}, src)

		rows, err := src.Fetch(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "shopify_sales")
		assert.Error(t, err)
	})
}

func TestResolver_WithoutRecordStore(t *testing.T) {
	resolver := NewResolver(nil, Dependencies{})
	_, err := resolver.Resolve(context.Background(), "blinkit_sales")
	assert.Error(t, err)
}

func TestResolver_S3ClientPerRegion(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials"))
	ctx := context.Background()
	r := NewResolver(nil, Dependencies{})

	mumbai, err := r.s3Client(ctx, "ap-south-1")
	require.NoError(t, err)
	virginia, err := r.s3Client(ctx, "us-east-1")
	require.NoError(t, err)
	again, err := r.s3Client(ctx, "ap-south-1")
	require.NoError(t, err)

	assert.NotSame(t, mumbai, virginia)
	assert.Same(t, mumbai, again)
}
