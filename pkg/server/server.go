package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/de-tools/account-ranking/pkg/export"
	handlers "github.com/de-tools/account-ranking/pkg/handlers/report"
	rankingmiddleware "github.com/de-tools/account-ranking/pkg/server/middleware"
	"github.com/de-tools/account-ranking/pkg/services/ranking"
	"github.com/de-tools/account-ranking/pkg/store/artifact"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Session   *ranking.Session
	Exporters export.Registry
	Sink      artifact.Sink
	Labels    export.Labels
	Logger    zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

// ConfigureRouter mounts the report API under /api/v1.
func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	reportHandler := handlers.NewHandler(deps.Session, deps.Exporters, deps.Sink, deps.Labels)

	router := chi.NewRouter()

	router.Use(rankingmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/records", reportHandler.LoadRecords)
		r.Get("/report", reportHandler.GetReport)
		r.Get("/users", reportHandler.ListUsers)
		r.Put("/filter", reportHandler.SetFilter)
		r.Post("/sort", reportHandler.ToggleSort)
		r.Get("/export/{format}", reportHandler.DownloadExport)
		r.Post("/export/{format}", reportHandler.StoreExport)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: timeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
