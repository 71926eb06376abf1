package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/gamegrab/models"
)

// BrowserStatus reports whether the shared browser is up.
type BrowserStatus interface {
	Running() bool
}

// Health returns a handler for GET /health. It never launches the browser.
func Health(bs BrowserStatus, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		browser := "idle"
		if bs.Running() {
			browser = "running"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "OK",
			Message:   "Server is running",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			Browser:   browser,
		})
	}
}
