// Package stubserver is a development stand-in for the production
// backend. It serves every route the gateway consumes, backed by
// in-memory state and generated fixtures, so the authoring core (and
// the frontend) can be developed without the real service.
package stubserver

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	HTTP struct {
		Port int32
	}

	Auth struct {
		Secret   string
		TokenTTL time.Duration
	}

	Fixtures struct {
		Seed       uint64
		Categories int
	}
}

type Server struct {
	c      Config
	data   *dataset
	engine *gin.Engine
	http   *http.Server
}

func Init(c Config) (*Server, error) {
	if c.Auth.Secret == "" {
		return nil, fmt.Errorf("stubserver: auth secret is required")
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Fixtures.Categories == 0 {
		c.Fixtures.Categories = 12
	}

	s := &Server{
		c:    c,
		data: newDataset(c.Fixtures.Seed, c.Fixtures.Categories),
	}

	s.initRoutes()

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", c.HTTP.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 60 * time.Second,
	}
	return s, nil
}

func (s *Server) initRoutes() {
	e := gin.New()
	e.Use(gin.Recovery())

	e.GET("/metrics", gin.WrapH(promhttp.Handler()))
	pprof.Register(e, "/debug/pprof")

	e.POST("/auth/login", s.handleLogin)

	// The category and question pool is public, like the production API.
	e.GET("/categories/active", s.handleListCategories)
	e.GET("/category/:categoryID/questions", s.handleQuestionsByCategory)
	e.GET("/question", s.handleRandomQuestion)
	e.POST("/check-answer", s.handleCheckAnswer)

	authed := e.Group("/", s.authRequired())
	authed.GET("/events/my", s.handleListEvents)
	authed.POST("/events", s.handleSaveEvent)
	authed.GET("/events/:eventID", s.handleGetEvent)
	authed.DELETE("/events/:eventID", s.handleDeleteEvent)
	authed.POST("/rounds", s.handleCreateRound)
	authed.GET("/rounds/:roundID", s.handleGetRound)
	authed.DELETE("/rounds/:roundID", s.handleDeleteRound)

	s.engine = e
}

// Handler exposes the route tree for tests driving the server through
// httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start() {
	ctx := context.TODO()

	slog.InfoContext(ctx, fmt.Sprintf("stubserver: HTTP listening on port %d", s.c.HTTP.Port))
	if err := s.http.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		slog.ErrorContext(ctx, "stubserver: serve failed", "error", err)
	}
}

func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "stubserver: shutdown HTTP failed", "error", err)
	}

	slog.InfoContext(ctx, "stubserver: shutdown completed")
}
