// Package server serves the cryptoup HTTP API: the quote list, the
// arbitrage simulation and the resale price setting
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v3"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/Thidomsilva/cryptoup/metrics"
	"github.com/Thidomsilva/cryptoup/server/config"
	"github.com/Thidomsilva/cryptoup/simulate"
)

// RoutesFn is a callback that receives a router for registering routes
type RoutesFn func(router chi.Router)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Simulator is the arbitrage core the API handlers delegate to
type Simulator interface {
	Run(ctx context.Context, amount float64) ([]simulate.Result, error)
	ResalePrice() float64
	SetResalePrice(price float64) error
}

type Server struct {
	logger *slog.Logger
	config *config.Config

	quotes    simulate.QuoteSource
	simulator Simulator

	mux *chi.Mux
}

// New creates a new server instance
func New(
	quotes simulate.QuoteSource,
	simulator Simulator,
	opts ...Option,
) (*Server, error) {
	s := &Server{
		logger:    noopLogger,
		quotes:    quotes,
		simulator: simulator,
		config:    config.DefaultConfig(),
		mux:       chi.NewMux(),
	}

	// Apply the options
	for _, opt := range opts {
		opt(s)
	}

	// Validate the configuration
	if err := config.ValidateConfig(s.config); err != nil {
		return nil, fmt.Errorf("invalid configuration, %w", err)
	}

	// Set up the CORS middleware
	if s.config.CORSConfig != nil {
		corsMiddleware := cors.New(cors.Options{
			AllowedOrigins: s.config.CORSConfig.AllowedOrigins,
			AllowedMethods: s.config.CORSConfig.AllowedMethods,
			AllowedHeaders: s.config.CORSConfig.AllowedHeaders,
		})

		s.mux.Use(corsMiddleware.Handler)
	}

	s.mux.Use(httplog.RequestLogger(s.logger, &httplog.Options{
		Level:         slog.LevelInfo,
		Schema:        httplog.SchemaOTEL,
		RecoverPanics: true,
		Skip: func(_ *http.Request, respStatus int) bool {
			return respStatus == 404 || respStatus == 405
		},
	}))

	// Register the health check handler
	s.mux.Get("/health", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	// Register the Prometheus scrape endpoint
	s.mux.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Register the API endpoints
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/prices", s.Prices)
		r.Post("/simulate", s.Simulate)
		r.Get("/picnic", s.GetPicnic)
		r.Put("/picnic", s.SetPicnic)
	})

	// Register the API docs
	s.mux.Get("/openapi.yaml", s.OpenAPI)
	s.mux.Get("/docs", s.Redoc)

	return s, nil
}

// Routes calls fn with the server mux so callers can add endpoints
func (s *Server) Routes(fn RoutesFn) {
	if fn == nil {
		return
	}

	fn(s.mux)
}

// Serve serves the cryptoup service
func (s *Server) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.config.ListenAddress,
		Handler:           s.mux,
		ReadHeaderTimeout: 60 * time.Second,
	}

	group, gCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer s.logger.Info("server shut down")

		ln, err := net.Listen("tcp", server.Addr)
		if err != nil {
			return err
		}

		s.logger.Info(
			fmt.Sprintf(
				"server started at %s",
				ln.Addr().String(),
			),
		)

		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {
		<-gCtx.Done()

		s.logger.Info("server to be shutdown")

		wsCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()

		return server.Shutdown(wsCtx)
	})

	return group.Wait()
}
