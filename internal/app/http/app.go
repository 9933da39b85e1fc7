package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"rentnova/internal/config"
	"rentnova/internal/http/propertyhttp"
	"rentnova/internal/lib/logger/sl"
	"rentnova/internal/lib/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

type App struct {
	log        *slog.Logger
	httpServer *http.Server
	port       int
}

// New собирает роутер со всеми обработчиками.
func New(
	log *slog.Logger,
	cfg config.HTTPConfig,
	svc propertyhttp.RecommendationService,
	recorder *metrics.Recorder,
	gatherer prometheus.Gatherer,
) *App {
	router := NewRouter(log, cfg.AllowedOrigins, svc, recorder, gatherer)

	return &App{
		log:  log,
		port: cfg.Port,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

func NewRouter(
	log *slog.Logger,
	allowedOrigins []string,
	svc propertyhttp.RecommendationService,
	recorder *metrics.Recorder,
	gatherer prometheus.Gatherer,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}).Handler)
	r.Use(instrument(recorder))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	propertyhttp.Register(r, log, svc, recorder)

	return r
}

// MustRun запускает сервер и паникует при ошибке.
func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	const op = "httpapp.Run"

	a.log.Info("http server started", slog.String("addr", a.httpServer.Addr))

	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Stop дожидается завершения активных запросов не дольше timeout.
func (a *App) Stop(timeout time.Duration) {
	const op = "httpapp.Stop"

	a.log.With(slog.String("op", op)).Info("stopping http server", slog.Int("port", a.port))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("http server shutdown failed", slog.String("op", op), sl.Err(err))
	}
}
