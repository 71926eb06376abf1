package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/gamegrab/api/middleware"
	"github.com/use-agent/gamegrab/models"
)

// DownloadLinks returns a handler for POST /api/get-download-links.
func DownloadLinks(f Finder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DownloadLinksRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.GameURL) == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Game URL is required"})
			return
		}

		slog.Info("fetching download links",
			"requestId", middleware.GetRequestID(c),
			"gameUrl", req.GameURL,
		)

		links, err := f.DownloadLinks(c.Request.Context(), req.GameURL)
		if err != nil {
			respondError(c, err, "Failed to get download links")
			return
		}

		c.JSON(http.StatusOK, models.DownloadLinksResponse{
			Message:       fmt.Sprintf("Found %d download links", len(links)),
			DownloadLinks: links,
		})
	}
}
