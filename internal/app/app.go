package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	apperrors "github.com/Sania-2000/sma-artifact-removal/internal/errors"
	"github.com/Sania-2000/sma-artifact-removal/internal/infrastructure"
	customMiddleware "github.com/Sania-2000/sma-artifact-removal/internal/middleware"
	"github.com/Sania-2000/sma-artifact-removal/internal/services"
	handlers "github.com/Sania-2000/sma-artifact-removal/internal/transport/http"
)

// Server is the results server container
type Server struct {
	Config         *config.Config
	Router         *chi.Mux
	HTTP           *http.Server
	Logger         *slog.Logger
	OTelProviders  *infrastructure.OTelProviders
	Metrics        *infrastructure.PipelineMetrics
	ResultsService *services.ResultsService
	HealthService  *services.HealthService
}

// NewServer builds the router and HTTP server. providers may be nil, in which
// case /metrics is not mounted and spans go to the global tracer.
func NewServer(cfg *config.Config, logger *slog.Logger, providers *infrastructure.OTelProviders, metrics *infrastructure.PipelineMetrics) *Server {
	s := &Server{
		Config:         cfg,
		Logger:         logger.With(slog.String("component", "server")),
		OTelProviders:  providers,
		Metrics:        metrics,
		ResultsService: services.NewResultsService(cfg.Paths, logger),
		HealthService:  services.NewHealthService(config.AppVersion, cfg.Paths, logger),
	}
	s.setupRouter()

	s.HTTP = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apperrors.NewErrorHandler(s.Logger, s.Config.Logging.Level == "debug")

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	if s.OTelProviders != nil && s.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", s.OTelProviders.PrometheusHTTP)
	}

	var tracer trace.Tracer
	if s.OTelProviders != nil {
		tracer = s.OTelProviders.Tracer
	}

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(tracer, s.Metrics, s.Logger).Handler)
		r.Use(customMiddleware.StructuredLogger(s.Logger))
		r.Use(customMiddleware.Recoverer(errorHandler))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.NewRateLimiter(
			s.Config.Server.RateLimitRPS,
			s.Config.Server.RateLimitBurst,
			errorHandler,
		).Handler)

		health := handlers.NewHealthHandler(s.HealthService, s.Logger)
		r.Get("/healthz", health.HealthCheck)

		results := handlers.NewResultsHandler(s.ResultsService, s.Logger, errorHandler)
		r.Mount("/api/v1/chunks", results.Routes())
	})

	s.Router = r
}

// Run listens on the configured port and serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.HTTP.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.Logger.InfoContext(ctx, "results server started",
		slog.String("address", ln.Addr().String()),
		slog.String("snr_dir", s.Config.Paths.SNR()))

	errCh := make(chan error, 1)
	go func() {
		if err := s.HTTP.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	return s.Stop(context.WithoutCancel(ctx))
}

// Stop drains in-flight requests within the shutdown timeout
func (s *Server) Stop(ctx context.Context) error {
	s.Logger.InfoContext(ctx, "shutting down results server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.HTTP.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.Logger.InfoContext(ctx, "results server stopped")
	return nil
}
