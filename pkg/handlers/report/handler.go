package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	controller report.Controller
}

func NewHandler(controller report.Controller) *Handler {
	return &Handler{controller: controller}
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, adapters.MapDefinitionsToApi(h.controller.Definitions()))
}

// GetReport builds the named report. The optional date query parameter
// (YYYY-MM-DD) anchors the Current period.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	name := chi.URLParam(r, "report")

	var anchor time.Time
	if date := r.URL.Query().Get("date"); date != "" {
		parsed, err := time.Parse(adapters.DateLayout, date)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, errors.New("date must be formatted as YYYY-MM-DD"))
			return
		}
		anchor = parsed
	}

	table, err := h.controller.Run(ctx, name, anchor)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			logger.Error().Err(err).Str("report", name).Msg("failed to build report")
		}
		writeError(w, r, status, err)
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapReportTableDomainToApi(*table))
}

func statusFor(err error) int {
	var schemaErr *domain.SchemaError
	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, report.ErrReportNotFound):
		return http.StatusNotFound
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	writeJSON(w, r, status, api.Error{Error: msg})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
