package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/gamegrab/api/middleware"
	"github.com/use-agent/gamegrab/models"
)

// Finder runs the site operations. *scraper.Scraper implements it.
type Finder interface {
	SearchGames(ctx context.Context, gameName string) ([]models.GameRecord, error)
	DownloadLinks(ctx context.Context, gameURL string) ([]models.DownloadLinkRecord, error)
}

// respondError maps a ScrapeError to the correct HTTP status code and writes
// a JSON error body. failMessage is used for server-side failures; client
// errors and NOT_FOUND carry the error's own message only.
func respondError(c *gin.Context, err error, failMessage string) {
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		scrapeErr = models.NewScrapeError(models.ErrCodeInternal, "unexpected error", err)
	}

	status := mapErrorToStatus(scrapeErr)
	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		c.JSON(status, models.ErrorResponse{Message: scrapeErr.Message})
		return
	}

	slog.Error(failMessage,
		"requestId", middleware.GetRequestID(c),
		"code", scrapeErr.Code,
		"error", err,
	)
	c.JSON(status, models.ErrorResponse{
		Message: failMessage,
		Error:   scrapeErr.Cause(),
		Code:    scrapeErr.Code,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	case models.ErrCodeNavigation, models.ErrCodeExtraction:
		return http.StatusBadGateway // 502
	case models.ErrCodeBrowserUnavailable:
		return http.StatusServiceUnavailable // 503
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	default:
		return http.StatusInternalServerError // 500
	}
}
