// Package server exposes the tutor over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/pathmind/internal/config"
	"github.com/abhisek/pathmind/internal/content"
	"github.com/abhisek/pathmind/internal/diagnostic"
	"github.com/abhisek/pathmind/internal/lesson"
	"github.com/abhisek/pathmind/internal/logger"
	"github.com/abhisek/pathmind/internal/metrics"
	"github.com/abhisek/pathmind/internal/progression"
)

const sweepInterval = time.Minute

// Deps are the collaborators the API is built from.
type Deps struct {
	Generator content.Generator
	Recorder  diagnostic.Recorder
	Progress  *progression.Service
	Lessons   *lesson.Flow
	Metrics   *metrics.Metrics // optional
	Log       *logger.Logger
	Config    config.ServerConfig
}

// Server is the HTTP API.
type Server struct {
	deps    Deps
	log     *logger.Logger
	engine  *gin.Engine
	limiter *RateLimiter

	// diagnostics holds one session per user, keyed by user id.
	diagnostics *registry[*diagnostic.Session]

	// lessons holds opened lessons keyed by user, topic and index.
	lessons *registry[*lesson.Lesson]
}

// New builds the router. Nothing listens until Run.
func New(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	ttl := deps.Config.SessionTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	s := &Server{
		deps:    deps,
		log:     deps.Log.With("component", "server"),
		limiter: NewRateLimiter(deps.Config.RateLimit.RPS, deps.Config.RateLimit.Burst),
		lessons: newRegistry[*lesson.Lesson](ttl, nil),
	}
	s.diagnostics = newRegistry(ttl, func(sess *diagnostic.Session) { sess.Abandon() })

	if deps.Config.Mode != "" {
		gin.SetMode(deps.Config.Mode)
	}
	s.engine = s.routes()
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.deps.Config.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Server) sweep() {
	if n := s.diagnostics.Sweep(); n > 0 {
		s.log.Debug("expired diagnostic sessions", "count", n)
	}
	s.lessons.Sweep()
	s.limiter.Sweep(10 * time.Minute)
	s.reportSessions()
}

func (s *Server) reportSessions() {
	if s.deps.Metrics != nil {
		s.deps.Metrics.SetActiveSessions(s.diagnostics.Len())
	}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(Recovery(s.log), RequestLogger(s.log), CORS(s.deps.Config.CORSOrigins))
	if s.deps.Metrics != nil {
		r.Use(s.deps.Metrics.Middleware())
		r.GET("/metrics", s.deps.Metrics.Handler())
	}
	r.GET("/healthz", func(c *gin.Context) { success(c, gin.H{"status": "ok"}) })

	limited := s.limiter.Middleware()

	api := r.Group("/api", Identity())
	{
		ob := api.Group("/onboarding")
		ob.GET("/levels", s.handleLevels)
		ob.GET("/degrees", s.handleDegrees)
		ob.GET("/subjects", limited, s.handleSubjects)
		ob.GET("/topics", s.handleOnboardingTopics)

		d := api.Group("/diagnostics")
		d.POST("", limited, s.handleStartDiagnostic)
		d.GET("/:id", s.handleGetDiagnostic)
		d.POST("/:id/select", s.handleSelect)
		d.POST("/:id/confirm", limited, s.handleConfirm)
		d.POST("/:id/reset", s.handleReset)
		d.DELETE("/:id", s.handleAbandon)

		api.GET("/topics", s.handleTopics)
		api.GET("/dashboard/:topic", s.handleDashboard)

		l := api.Group("/learn/:topic/:index")
		l.GET("", limited, s.handleOpenLesson)
		l.POST("/answer", limited, s.handleAnswer)
		l.POST("/complete", limited, s.handleComplete)
	}

	r.NoRoute(notFound)
	return r
}
