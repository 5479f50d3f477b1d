// Package server exposes dog journals, local insights and remote analyses
// over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/doglog-app/doglog/internal/insights"
	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/llm"
)

// Analyst produces remote analyses and plans. *llm.Gateway implements it.
type Analyst interface {
	HasCredential() bool
	IsLoading() bool
	RequestAnalysis(ctx context.Context, j journal.Journal, r journal.TimeRange, local insights.DogInsights) (*llm.Analysis, error)
	RequestTrainingPlan(ctx context.Context, d journal.Dog, prior *llm.Analysis) (*llm.TrainingPlan, error)
	CachedAnalysis(ctx context.Context, dogID string, r journal.TimeRange) (*llm.Analysis, bool, error)
}

// Options configures the HTTP API.
type Options struct {
	Service *journal.Service
	Analyst Analyst
	Logger  *slog.Logger

	// AllowedOrigins lists CORS origins; "*" allows any.
	AllowedOrigins []string

	// Now defaults to time.Now. Day dates are interpreted in its location.
	Now func() time.Time
}

type api struct {
	svc     *journal.Service
	analyst Analyst
	logger  *slog.Logger
	now     func() time.Time
}

// NewRouter builds the chi router with every route mounted.
func NewRouter(opts Options) http.Handler {
	a := &api{
		svc:     opts.Service,
		analyst: opts.Analyst,
		logger:  opts.Logger,
		now:     opts.Now,
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.now == nil {
		a.now = time.Now
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(a.logger))
	r.Use(chimw.Recoverer)
	r.Use(cors(opts.AllowedOrigins))

	r.Get("/health", a.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/activities/catalog", a.listCatalog)
		r.Post("/activities/catalog", a.addCatalogEntry)

		r.Route("/dogs", func(r chi.Router) {
			r.Get("/", a.listDogs)
			r.Post("/", a.createDog)

			r.Route("/{dogID}", func(r chi.Router) {
				r.Get("/", a.getDog)
				r.Patch("/", a.updateDog)
				r.Delete("/", a.deleteDog)

				r.Get("/days/{date}", a.getDay)
				r.Put("/days/{date}", a.saveDay)

				r.Get("/insights", a.getInsights)
				r.Get("/analysis", a.getAnalysis)
				r.Post("/analysis", a.requestAnalysis)
				r.Post("/training-plan", a.requestTrainingPlan)
			})
		})
	})

	return r
}

// Run serves handler on addr until ctx is cancelled or SIGINT/SIGTERM
// arrives, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
