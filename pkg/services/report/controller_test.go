package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/comparison"
	"github.com/de-tools/sales-atlas/pkg/services/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, sourceType string) (RowSource, error) {
	args := m.Called(ctx, sourceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(RowSource), args.Error(1)
}

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawRecord), args.Error(1)
}

func newTestController(t *testing.T, resolver SourceResolver) Controller {
	t.Helper()
	r, err := NewRegistry(DefaultDefinitions()...)
	require.NoError(t, err)
	return NewController(r, resolver, comparison.NewEngine(schema.NewNormalizer(schema.DefaultProvider())))
}

func TestController_Run(t *testing.T) {
	anchor := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("merges ads and sales", func(t *testing.T) {
		// Given
		ads := &mockSource{}
		ads.On("Fetch", mock.Anything).Return([]domain.RawRecord{
			{"date": "15-01-2025", "product_name": "Femi Pads", "estimated_budget_consumed": "₹200", "direct_sales": "500"},
			{"date": "14-01-2025", "product_name": "femi pads", "estimated_budget_consumed": "100", "direct_sales": "100"},
		}, nil)
		sales := &mockSource{}
		sales.On("Fetch", mock.Anything).Return([]domain.RawRecord{
			{"order_date": "15-01-2025", "product": "FEMI PADS", "quantity": "4", "net_revenue": "1,000"},
		}, nil)

		resolver := &mockResolver{}
		resolver.On("Resolve", mock.Anything, "blinkit_ads").Return(ads, nil)
		resolver.On("Resolve", mock.Anything, "blinkit_sales").Return(sales, nil)

		// When
		table, err := newTestController(t, resolver).Run(context.Background(), "blinkit_ad_spend", anchor)

		// Then
		require.NoError(t, err)
		require.Len(t, table.Rows, 2)
		pads := table.Rows[0]
		assert.Equal(t, []string{"Femi Pads"}, pads.Labels)
		assert.True(t, pads.Ratios["Current"]["roas"].Equal(decimalOf(5)))
		assert.True(t, pads.Ratios["Current"]["direct_roas"].Equal(decimalOf(2.5)))
		assert.True(t, pads.Growth[schema.MetricSpend].Equal(decimalOf(100)))
		resolver.AssertExpectations(t)
		ads.AssertExpectations(t)
		sales.AssertExpectations(t)
	})

	t.Run("unknown report", func(t *testing.T) {
		_, err := newTestController(t, &mockResolver{}).Run(context.Background(), "nope", anchor)
		assert.ErrorIs(t, err, ErrReportNotFound)
	})

	t.Run("fetch failure aborts the report", func(t *testing.T) {
		failing := &mockSource{}
		failing.On("Fetch", mock.Anything).Return(nil, errors.New("connection refused"))
		ok := &mockSource{}
		ok.On("Fetch", mock.Anything).Return([]domain.RawRecord{}, nil).Maybe()

		resolver := &mockResolver{}
		resolver.On("Resolve", mock.Anything, "swiggy_ads").Return(failing, nil)
		resolver.On("Resolve", mock.Anything, "swiggy_sales").Return(ok, nil)

		table, err := newTestController(t, resolver).Run(context.Background(), "swiggy_ad_spend", anchor)
		assert.Nil(t, table)
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("resolve failure", func(t *testing.T) {
		resolver := &mockResolver{}
		resolver.On("Resolve", mock.Anything, "blinkit_sales").Return(nil, errors.New("no binding"))

		_, err := newTestController(t, resolver).Run(context.Background(), "blinkit_citywise", anchor)
		assert.ErrorContains(t, err, "no binding")
	})
}

func TestController_Definitions(t *testing.T) {
	c := newTestController(t, &mockResolver{})
	assert.Len(t, c.Definitions(), len(DefaultDefinitions()))
}

func decimalOf(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
