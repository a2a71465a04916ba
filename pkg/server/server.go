package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	handlers "github.com/de-tools/sales-atlas/pkg/handlers/report"
	atlasmiddleware "github.com/de-tools/sales-atlas/pkg/server/middleware"
	"github.com/de-tools/sales-atlas/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Controller     report.Controller
	Logger         zerolog.Logger
	AllowedOrigins []string
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	reportHandler := handlers.NewHandler(deps.Controller)

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(atlasmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/reports", reportHandler.ListReports)
		r.Get("/reports/{report}", reportHandler.GetReport)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	logger := config.Dependencies.Logger
	return &WebAPI{
		logger:          &logger,
		shutdownTimeout: timeout,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           ConfigureRouter(config),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (w *WebAPI) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(shutdownCtx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}
		return err
	}
}
