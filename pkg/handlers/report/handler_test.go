package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockController struct {
	mock.Mock
}

func (m *mockController) Run(ctx context.Context, name string, anchor time.Time) (*domain.ReportTable, error) {
	args := m.Called(ctx, name, anchor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportTable), args.Error(1)
}

func (m *mockController) Definitions() []report.Definition {
	args := m.Called()
	return args.Get(0).([]report.Definition)
}

func setupRouter(controller *mockController) http.Handler {
	h := NewHandler(controller)
	router := chi.NewRouter()
	router.Get("/reports", h.ListReports)
	router.Get("/reports/{report}", h.GetReport)
	return router
}

func TestListReports(t *testing.T) {
	controller := new(mockController)
	controller.On("Definitions").Return([]report.Definition{
		{Name: "blinkit_citywise", Title: "Blinkit City-wise", Sources: []string{"blinkit_sales"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	rec := httptest.NewRecorder()
	setupRouter(controller).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response []api.ReportSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, []api.ReportSummary{
		{Name: "blinkit_citywise", Title: "Blinkit City-wise", Sources: []string{"blinkit_sales"}},
	}, response)
	controller.AssertExpectations(t)
}

func TestGetReport(t *testing.T) {
	anchor := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	table := &domain.ReportTable{
		Title:   "Sales",
		Periods: []domain.Period{{Name: "Current", Date: anchor}},
		Header: []domain.HeaderCell{
			{Outer: "Current", Inner: "Revenue", Kind: domain.ColumnKindMetric, Period: "Current", Date: anchor, Metric: "revenue"},
		},
		Rows: []domain.ComparisonRow{
			{Kind: domain.RowKindGrandTotal, Labels: []string{domain.GrandTotalLabel}, Values: []decimal.Decimal{decimal.NewFromInt(42)}},
		},
	}

	tests := []struct {
		name           string
		path           string
		setupMock      func(*mockController)
		expectedStatus int
		check          func(t *testing.T, body []byte)
	}{
		{
			name: "anchored report",
			path: "/reports/sales?date=2025-01-15",
			setupMock: func(m *mockController) {
				m.On("Run", mock.Anything, "sales", anchor).Return(table, nil)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var res api.ReportTable
				require.NoError(t, json.Unmarshal(body, &res))
				assert.Equal(t, "Sales", res.Title)
				require.Len(t, res.Rows, 1)
				assert.Equal(t, []string{"42.00"}, res.Rows[0].Values)
				assert.Equal(t, "Wed 15 Jan", res.Header[0].Label)
			},
		},
		{
			name: "latest date when no anchor given",
			path: "/reports/sales",
			setupMock: func(m *mockController) {
				m.On("Run", mock.Anything, "sales", time.Time{}).Return(table, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed date",
			path:           "/reports/sales?date=15-01-2025",
			setupMock:      func(m *mockController) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown report",
			path: "/reports/missing",
			setupMock: func(m *mockController) {
				m.On("Run", mock.Anything, "missing", time.Time{}).
					Return(nil, fmt.Errorf("%w: %q", report.ErrReportNotFound, "missing"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "invalid request",
			path: "/reports/sales",
			setupMock: func(m *mockController) {
				m.On("Run", mock.Anything, "sales", time.Time{}).
					Return(nil, &domain.ValidationError{Field: "baseline", Reason: "unknown period"})
			},
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, body []byte) {
				var res api.Error
				require.NoError(t, json.Unmarshal(body, &res))
				assert.Equal(t, "invalid baseline: unknown period", res.Error)
			},
		},
		{
			name: "unmappable source",
			path: "/reports/sales",
			setupMock: func(m *mockController) {
				m.On("Run", mock.Anything, "sales", time.Time{}).
					Return(nil, fmt.Errorf("build: %w", &domain.SchemaError{SourceType: "blinkit_sales", Reason: "no date column"}))
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "source failure",
			path: "/reports/sales",
			setupMock: func(m *mockController) {
				m.On("Run", mock.Anything, "sales", time.Time{}).
					Return(nil, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body []byte) {
				var res api.Error
				require.NoError(t, json.Unmarshal(body, &res))
				assert.Equal(t, "Internal Server Error", res.Error)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := new(mockController)
			tt.setupMock(controller)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			setupRouter(controller).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.check != nil {
				tt.check(t, rec.Body.Bytes())
			}
			controller.AssertExpectations(t)
		})
	}
}
