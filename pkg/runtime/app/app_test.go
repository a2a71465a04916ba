package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blinkitExport = `order_date,feeder_wh,sku,quantity,net_revenue
15/01/2025,Delhi WH,SKU1,2,200
14/01/2025,Delhi WH,SKU1,1,100
14/01/2025,Pune WH,SKU2,4,80
`

func newTestApp(t *testing.T, cfg *config.Config) *App {
	ctx := zerolog.Nop().WithContext(context.Background())
	a, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestApp_ImportThenReport(t *testing.T) {
	// Given
	path := filepath.Join(t.TempDir(), "blinkit.csv")
	require.NoError(t, os.WriteFile(path, []byte(blinkitExport), 0o600))

	a := newTestApp(t, &config.Config{DuckDB: config.DuckDBConfig{Path: ":memory:"}})
	ctx := context.Background()

	// When
	batch, err := a.Import(ctx, "blinkit_sales", path, "")
	require.NoError(t, err)
	table, err := a.Reports.Run(ctx, "blinkit_citywise", time.Time{})

	// Then
	require.NoError(t, err)
	assert.Equal(t, 3, batch.Rows)
	assert.Equal(t, "blinkit.csv", batch.FileName)

	grand, ok := table.GrandTotal()
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(2).Equal(grand.Value("Current", "quantity")))
	assert.True(t, decimal.NewFromInt(180).Equal(grand.Value("D-1", "revenue")))
	assert.True(t, decimal.NewFromInt(100).Equal(grand.Share))
	assert.Equal(t, domain.HeaderShare, table.Header[len(table.Header)-1].Outer)
	assert.Nil(t, a.Digest)
}

func TestApp_DigestEnabledWithKey(t *testing.T) {
	a := newTestApp(t, &config.Config{
		DuckDB: config.DuckDBConfig{Path: ":memory:"},
		Digest: config.DigestConfig{Report: "channel_overview", APIKey: "SG.test", To: []string{"ops@example.com"}},
	})

	assert.NotNil(t, a.Digest)
}

func TestApp_MissingReportsFile(t *testing.T) {
	ctx := context.Background()
	_, err := New(ctx, &config.Config{
		DuckDB:  config.DuckDBConfig{Path: ":memory:"},
		Reports: filepath.Join(t.TempDir(), "missing.yaml"),
	})

	assert.Error(t, err)
}

func TestApp_SendDigestDisabled(t *testing.T) {
	a := newTestApp(t, &config.Config{DuckDB: config.DuckDBConfig{Path: ":memory:"}})

	_, err := a.SendDigest(context.Background(), time.Time{})

	assert.ErrorIs(t, err, ErrDigestDisabled)
}
