package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kbukum/podscribe/logger"
	"github.com/kbukum/podscribe/server/middleware"
)

// Server is the HTTP API backed by Gin.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger

	mu       sync.Mutex
	listener net.Listener
}

// New creates a Server with the standard middleware stack applied. Routes
// are registered separately.
func New(cfg Config) *Server {
	cfg.ApplyDefaults()
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	s := &Server{
		engine: engine,
		config: cfg,
		log:    logger.Get("server"),
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
	s.applyMiddleware()
	return s
}

// applyMiddleware installs recovery, request ID, request logging, the body
// size limit and, when configured, per-client rate limiting.
func (s *Server) applyMiddleware() {
	s.engine.Use(middleware.Recovery(s.log))
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.RequestLogger(s.log))
	s.engine.Use(middleware.BodySizeLimit(s.config.MaxBodyBytes()))
	if s.config.RateLimit > 0 {
		s.engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: s.config.RateLimit,
			Burst:             s.config.Burst,
		}))
	}
}

// Engine returns the Gin engine for route registration.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Start binds the port and serves in a goroutine. It returns once the
// listener is bound.
func (s *Server) Start(_ context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Run starts the server and blocks until ctx is done, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Stop(context.WithoutCancel(ctx))
}

// Stop gracefully shuts down within the configured shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server shut down")
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}
