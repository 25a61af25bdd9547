package adminapi

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kestreldns/kestrel/internal/adminapi/handlers"
	"github.com/kestreldns/kestrel/internal/adminapi/middleware"
	"github.com/kestreldns/kestrel/internal/config"

	_ "github.com/kestreldns/kestrel/internal/adminapi/docs" // swagger docs
)

// RegisterRoutes wires the health/stats endpoints and swagger UI onto r.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Config) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	if cfg != nil && cfg.API.APIKey != "" {
		api.Use(middleware.RequireAPIKey(cfg.API.APIKey))
	}

	api.GET("/health", h.Health)
	api.GET("/stats", h.Stats)
}
