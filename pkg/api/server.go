// Package api exposes the octet codec over a JSON REST API.
//
// All routes under /api/v1 require the X-API-Key header when a key is
// configured. Byte sequences travel as lowercase hex strings.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// NewRouter builds the HTTP handler for s. Metrics are scraped from gatherer
// at /metrics without authentication.
func NewRouter(s *Server, gatherer prometheus.Gatherer) http.Handler {
	metrics := s.metrics

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		// Text codecs
		r.Post("/utf8/encode", metrics.InstrumentHandler("POST", "/api/v1/utf8/encode", s.handleUTF8Encode))
		r.Post("/utf8/decode", metrics.InstrumentHandler("POST", "/api/v1/utf8/decode", s.handleUTF8Decode))
		r.Post("/latin1/encode", metrics.InstrumentHandler("POST", "/api/v1/latin1/encode", s.handleLatin1Encode))
		r.Post("/latin1/decode", metrics.InstrumentHandler("POST", "/api/v1/latin1/decode", s.handleLatin1Decode))
		r.Post("/uint32", metrics.InstrumentHandler("POST", "/api/v1/uint32", s.handleUint32))

		// Randomness and stored seeds
		r.Post("/random", metrics.InstrumentHandler("POST", "/api/v1/random", s.handleRandom))
		r.Get("/seeds/{id}", metrics.InstrumentHandler("GET", "/api/v1/seeds/{id}", s.handleGetSeed))
		r.Delete("/seeds/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/seeds/{id}", s.handleDeleteSeed))
	})

	return r
}

// Serve runs handler on ln until ctx is cancelled, then shuts the server down
// gracefully. A clean shutdown returns nil.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("api server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("api server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// StartServer listens on the configured address and serves the API until ctx
// is cancelled. reg receives the API metrics and is also scraped at /metrics.
func StartServer(
	ctx context.Context,
	vault ISeedVault,
	random RandomSource,
	config ServerConfig,
	reg *prometheus.Registry,
	logger *zap.Logger,
) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	server := NewServer(vault, random, config, NewMetrics(reg), logger)

	addr := net.JoinHostPort(config.Bind, fmt.Sprintf("%d", config.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	logger.Info("starting octet REST API server",
		zap.String("addr", addr),
		zap.String("metrics", fmt.Sprintf("http://%s/metrics", addr)),
	)

	return Serve(ctx, ln, NewRouter(server, reg), logger)
}
