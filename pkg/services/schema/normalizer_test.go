package schema

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(DefaultProvider())
	ctx := context.Background()

	t.Run("maps synonyms case-insensitively", func(t *testing.T) {
		records := []domain.RawRecord{
			{"Order Date": "14-01-2025", "Feeder Warehouse": "WH-1", "SKU": " sku-9 ", "Quantity": "3", "Net Revenue": "₹1,234.50"},
			{"Order Date": "15-01-2025", "Feeder Warehouse": "WH-2", "SKU": "sku-7", "Quantity": "N/A", "Net Revenue": 20.0},
		}

		out, stats, err := n.Normalize(ctx, "blinkit_sales", records)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, 2, stats.Normalized)

		first := out[0]
		assert.Equal(t, time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC), first.Date)
		assert.Equal(t, "WH-1", first.Dimensions[RoleWarehouse])
		assert.Equal(t, "sku-9", first.Dimensions[RoleSKU])
		assert.Equal(t, "Blinkit", first.Dimensions[domain.ChannelRole])
		assert.True(t, decimal.RequireFromString("1234.50").Equal(first.Metrics[MetricRevenue]))
		assert.True(t, decimal.NewFromInt(3).Equal(first.Metrics[MetricQuantity]))

		assert.True(t, out[1].Metrics[MetricQuantity].IsZero())
	})

	t.Run("first synonym in priority order wins", func(t *testing.T) {
		records := []domain.RawRecord{
			{"date": "2025-01-15", "gmv": "100", "revenue": "5", "product_name": "Pads"},
		}
		out, _, err := n.Normalize(ctx, "swiggy_sales", records)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.True(t, decimal.NewFromInt(100).Equal(out[0].Metrics[MetricRevenue]))
	})

	t.Run("drops records with unparsable dates", func(t *testing.T) {
		records := []domain.RawRecord{
			{"date": "not a date", "spend_inr": "10", "product": "A"},
			{"date": "2025-01-15", "spend_inr": "10", "product": "A"},
		}
		out, stats, err := n.Normalize(ctx, "amazon_ads", records)
		require.NoError(t, err)
		assert.Len(t, out, 1)
		assert.Equal(t, 1, stats.InvalidDate)
	})

	t.Run("missing metric column defaults to zero", func(t *testing.T) {
		records := []domain.RawRecord{{"date": "2025-01-15", "product": "A", "units_sold": "4"}}
		out, _, err := n.Normalize(ctx, "amazon_sales", records)
		require.NoError(t, err)
		require.Len(t, out, 1)
		rev, ok := out[0].Metrics[MetricRevenue]
		assert.True(t, ok)
		assert.True(t, rev.IsZero())
	})

	t.Run("unknown source type", func(t *testing.T) {
		_, _, err := n.Normalize(ctx, "myntra_sales", []domain.RawRecord{{"date": "2025-01-01"}})
		var schemaErr *domain.SchemaError
		assert.True(t, errors.As(err, &schemaErr))
	})

	t.Run("no date column", func(t *testing.T) {
		_, _, err := n.Normalize(ctx, "amazon_sales", []domain.RawRecord{{"product": "A"}})
		var schemaErr *domain.SchemaError
		assert.True(t, errors.As(err, &schemaErr))
	})

	t.Run("deterministic output", func(t *testing.T) {
		records := []domain.RawRecord{{"Date": "2025-01-15", "date": "2025-01-16", "product": "A", "spend": "1"}}
		a, _, err := n.Normalize(ctx, "amazon_ads", records)
		require.NoError(t, err)
		b, _, err := n.Normalize(ctx, "amazon_ads", records)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestNormalizer_ExtractRecords(t *testing.T) {
	n := NewNormalizer(DefaultProvider())
	ctx := context.Background()

	t.Run("header on first row", func(t *testing.T) {
		grid := domain.Grid{
			{"Date", "Product Name", "Estimated Budget Consumed"},
			{"15-01-2025", "Pads", "1,000"},
			{"", "", ""},
			{"16-01-2025", "Cups", "250"},
		}
		records, err := n.ExtractRecords(ctx, "blinkit_ads", grid)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Pads", records[0]["Product Name"])
	})

	t.Run("header below metadata rows", func(t *testing.T) {
		grid := domain.Grid{
			{"Blinkit Ads Report"},
			{"Generated", "2025-01-16"},
			{"Account", "femisafe"},
			{""},
			{"Filters: none"},
			{"CAMPAIGN_NAME", "Date", "Product Name", "Direct Sales"},
			{"Winter", "15-01-2025", "Pads", "₹500"},
		}
		records, err := n.ExtractRecords(ctx, "blinkit_ads", grid)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Winter", records[0]["CAMPAIGN_NAME"])

		out, _, err := n.Normalize(ctx, "blinkit_ads", records)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.True(t, decimal.NewFromInt(500).Equal(out[0].Metrics[MetricAdSales]))
	})

	t.Run("no marker within the scan window", func(t *testing.T) {
		grid := domain.Grid{{"report"}, {"a", "b"}, {"1", "2"}}
		_, err := n.ExtractRecords(ctx, "blinkit_ads", grid)
		var schemaErr *domain.SchemaError
		assert.True(t, errors.As(err, &schemaErr))
	})

	t.Run("duplicate header names are suffixed", func(t *testing.T) {
		grid := domain.Grid{
			{"Order Date", "SKU", "SKU", ""},
			{"15-01-2025", "x", "y", "ignored"},
		}
		records, err := n.ExtractRecords(ctx, "flipkart_sales", grid)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, domain.RawRecord{"Order Date": "15-01-2025", "SKU": "x", "SKU_2": "y"}, records[0])
	})
}

func TestNormalizer_ExtractRecordsScanWindow(t *testing.T) {
	const window = 4
	n := NewNormalizer(NewStaticProvider(domain.SourceMapping{
		SourceType:       "sheet",
		HeaderScanWindow: window,
		Fields: []domain.FieldSpec{
			{Role: "date", Kind: domain.FieldKindDate, Synonyms: []string{"Date"}},
			{Role: "revenue", Kind: domain.FieldKindMetric, Synonyms: []string{"Revenue"}},
		},
	}))
	ctx := context.Background()

	gridWithHeaderAt := func(idx int) domain.Grid {
		grid := domain.Grid{}
		for i := 0; i < idx; i++ {
			grid = append(grid, []string{"meta"})
		}
		return append(grid, []string{"Date", "Revenue"}, []string{"15-01-2025", "10"})
	}

	t.Run("marker on the last scanned row", func(t *testing.T) {
		// Given
		grid := gridWithHeaderAt(window - 1)

		// When
		records, err := n.ExtractRecords(ctx, "sheet", grid)

		// Then
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "10", records[0]["Revenue"])
	})

	t.Run("marker just past the window", func(t *testing.T) {
		// Given
		grid := gridWithHeaderAt(window)

		// When
		_, err := n.ExtractRecords(ctx, "sheet", grid)

		// Then
		var schemaErr *domain.SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, "sheet", schemaErr.SourceType)
	})
}

func TestLoadMappings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mappings.yaml")
	content := `sources:
  - source_type: myntra_sales
    channel: Myntra
    header_scan_window: 5
    fields:
      - role: date
        kind: date
        synonyms: ["order date"]
      - role: product
        kind: dimension
        display: Product
        synonyms: ["style name"]
      - role: revenue
        kind: metric
        display: Revenue
        synonyms: ["seller price"]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	provider, err := LoadMappings(path)
	require.NoError(t, err)

	m, err := provider.Mapping("myntra_sales")
	require.NoError(t, err)
	assert.Equal(t, "Myntra", m.ChannelName())
	assert.Equal(t, 5, m.HeaderScanWindow)
	assert.Len(t, m.Fields, 3)

	_, err = provider.Mapping("blinkit_sales")
	assert.NoError(t, err, "built-in mappings stay available")
}

func TestLoadMappings_RejectsMappingWithoutDate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	content := `sources:
  - source_type: broken
    fields:
      - role: revenue
        kind: metric`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadMappings(path)
	assert.Error(t, err)
}
