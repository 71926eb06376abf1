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

// SearchGame returns a handler for POST /api/search-game.
func SearchGame(f Finder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SearchGameRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.GameName) == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Game name is required"})
			return
		}

		slog.Info("searching game",
			"requestId", middleware.GetRequestID(c),
			"gameName", req.GameName,
		)

		games, err := f.SearchGames(c.Request.Context(), req.GameName)
		if err != nil {
			respondError(c, err, "Failed to search for game")
			return
		}

		c.JSON(http.StatusOK, models.SearchGameResponse{
			Message: fmt.Sprintf("Found %d games", len(games)),
			Games:   games,
		})
	}
}
