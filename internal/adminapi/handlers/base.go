// Package handlers implements the admin API endpoint handlers for Kestrel.
//
// @title Kestrel Admin API
// @version 1.0
// @description Health and statistics API for the Kestrel recursive resolver.
//
// @contact.name Kestrel
// @contact.url https://github.com/kestreldns/kestrel
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:8080
// @BasePath /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package handlers

import (
	"log/slog"
	"time"

	"github.com/kestreldns/kestrel/internal/cache"
	"github.com/kestreldns/kestrel/internal/config"
	"github.com/kestreldns/kestrel/internal/server"
)

// Handler contains dependencies for admin API handlers.
type Handler struct {
	cfg       *config.Config
	logger    *slog.Logger
	startTime time.Time

	stats *server.DNSStats
	cache *cache.Cache
}

// New creates a new Handler with the given configuration and runtime
// components. stats and cache may be nil in which case Stats returns zero
// values for the fields they back.
func New(cfg *config.Config, logger *slog.Logger, stats *server.DNSStats, c *cache.Cache) *Handler {
	return &Handler{
		cfg:       cfg,
		logger:    logger,
		startTime: time.Now(),
		stats:     stats,
		cache:     c,
	}
}
