package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/use-agent/gamegrab/api/handler"
	"github.com/use-agent/gamegrab/api/middleware"
	"github.com/use-agent/gamegrab/config"
	"github.com/use-agent/gamegrab/metrics"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger → RequestID → CORS
//	API:     Auth (if enabled)
//
// Health and metrics stay outside auth so monitoring probes always work.
func NewRouter(f handler.Finder, bs handler.BrowserStatus, m *metrics.Metrics, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/health", handler.Health(bs, startTime))
	if m != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	if cfg.Auth.Enabled {
		api.Use(middleware.Auth(cfg.Auth.APIKeys))
	}

	api.POST("/search-game", handler.SearchGame(f))
	api.POST("/get-download-links", handler.DownloadLinks(f))

	return r
}
