package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var ctxLogger *zerolog.Logger
	handler := Logger(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger = zerolog.Ctx(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	require.NotNil(t, ctxLogger)
	assert.NotEqual(t, zerolog.Disabled, ctxLogger.GetLevel())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/v1/reports", entry["path"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, "request served", entry["message"])
}
