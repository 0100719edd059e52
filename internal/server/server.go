// Package server is the reference REST backend for todocat.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"todocat/internal/store"
	"todocat/internal/telemetry"
)

// Server serves the categories and tasks API.
type Server struct {
	store  store.Store
	router *gin.Engine
	log    zerolog.Logger
	report func(error)
}

// Option configures a Server.
type Option func(*Server)

// WithReporter sets the function that receives server errors and recovered
// panics. The default sends them to Sentry when error reporting is configured.
func WithReporter(report func(error)) Option {
	return func(s *Server) {
		s.report = report
	}
}

// New creates a server backed by st.
func New(st store.Store, log zerolog.Logger, opts ...Option) *Server {
	router := gin.New()

	s := &Server{
		store:  st,
		router: router,
		log:    log,
		report: telemetry.Report,
	}
	for _, opt := range opts {
		opt(s)
	}

	router.Use(gin.CustomRecovery(s.recoverPanic), requestLogger(log))

	api := router.Group("/api")
	{
		api.GET("/health/", s.handleHealth)
		api.GET("/debug-sentry/", s.handleDebugSentry)

		api.GET("/categories/", s.handleListCategories)
		api.POST("/categories/", s.handleCreateCategory)

		api.GET("/tasks/", s.handleListTasks)
		api.POST("/tasks/", s.handleCreateTask)
		api.GET("/tasks/:id/", s.handleGetTask)
		api.PATCH("/tasks/:id/", s.handleUpdateTask)
		api.DELETE("/tasks/:id/", s.handleDeleteTask)
	}

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	s.log.Info().Msg("server stopped")
	return nil
}

// recoverPanic reports a panic raised by a handler and answers 500.
func (s *Server) recoverPanic(c *gin.Context, recovered any) {
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", recovered)
	}
	s.serverError(c, err)
	c.Abort()
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
