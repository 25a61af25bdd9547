// Package adminapi provides the read-only management API for Kestrel:
// a health check and a statistics endpoint, served alongside the DNS
// listener rather than in front of it.
package adminapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kestreldns/kestrel/internal/adminapi/handlers"
	"github.com/kestreldns/kestrel/internal/adminapi/middleware"
	"github.com/kestreldns/kestrel/internal/cache"
	"github.com/kestreldns/kestrel/internal/config"
	"github.com/kestreldns/kestrel/internal/server"
)

// Server is the admin HTTP API server.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

// New builds the admin API server, wiring stats and cache into the
// /api/v1/stats handler.
func New(cfg *config.Config, logger *slog.Logger, stats *server.DNSStats, c *cache.Cache) *Server {
	if cfg == nil {
		panic("adminapi.New: cfg is nil")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.SlogRequestLogger(logger))

	h := handlers.New(cfg, logger, stats, c)
	RegisterRoutes(engine, h, cfg)

	addr := net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{cfg: cfg, logger: logger, engine: engine, httpServer: httpServer}
}

func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
