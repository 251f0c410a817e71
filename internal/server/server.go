package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/information-sharing-networks/blog-api/internal/config"
	"github.com/information-sharing-networks/blog-api/internal/logger"
	"github.com/information-sharing-networks/blog-api/internal/server/handlers"
	blogmiddleware "github.com/information-sharing-networks/blog-api/internal/server/middleware"
	"github.com/information-sharing-networks/blog-api/internal/store"
	"github.com/information-sharing-networks/blog-api/internal/version"
)

type Server struct {
	store  store.Store
	config *config.ServerEnvironment
	logger *slog.Logger
	router *chi.Mux
}

func NewServer(
	s store.Store,
	cfg *config.ServerEnvironment,
	logger *slog.Logger,
) *Server {
	server := &Server{
		store:  s,
		config: cfg,
		logger: logger,
		router: chi.NewRouter(),
	}

	server.setupMiddleware()
	server.registerRoutes()

	return server
}

// Handler returns the root http handler (used by tests that do not need a listener)
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(middleware.Recoverer)
	if s.config.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.config.RequestTimeout))
	}
	s.router.Use(blogmiddleware.SecurityHeaders(s.config.Environment))
}

func (s *Server) registerRoutes() {
	s.router.Get("/health/live", handlers.HandleHealth)
	s.router.Get("/health/ready", handlers.HandleReadiness(s.store, s.config.DatabasePingTimeout))
	s.router.Get("/version", handlers.HandleVersion(version.Get()))

	// only the routes that take a post in the body get the JSON body guard
	jsonBody := blogmiddleware.JSONBody(s.config.MaxRequestSize)

	s.router.Route("/posts", func(r chi.Router) {
		r.Use(blogmiddleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))

		r.Get("/", handlers.HandleListPosts(s.store))
		r.With(jsonBody).Post("/", handlers.HandleCreatePost(s.store))
		r.Get("/{id}", handlers.HandleGetPost(s.store))
		r.With(jsonBody).Put("/{id}", handlers.HandleUpdatePost(s.store))
		r.Delete("/{id}", handlers.HandleDeletePost(s.store))
	})
}

// Start listens on the configured host and port and serves requests until ctx is cancelled,
// then shuts the HTTP server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	serverAddr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("service listening",
			slog.String("environment", s.config.Environment),
			slog.String("address", serverAddr))

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("shutting down HTTP server")

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Warn("HTTP server shutdown error",
			slog.String("error", err.Error()))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}

// StoreShutdown closes the store connection
func (s *Server) StoreShutdown() {
	if s.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer cancel()

	if err := s.store.Close(ctx); err != nil {
		s.logger.Warn("failed to close store connection", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("store connection closed")
}
