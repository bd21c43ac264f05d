package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartetude/smartetude-backend/internal/infra/postgres/repository"
	"github.com/smartetude/smartetude-backend/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps service and repository errors to HTTP statuses: not-found
// sentinels become 404, domain-state refusals become 409, bad input becomes
// 400 and anything else is a 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, repository.ErrCourseNotFound),
		errors.Is(err, repository.ErrQuizNotFound),
		errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, repository.ErrAttemptNotFound),
		errors.Is(err, repository.ErrStatsNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrCourseHasNoText),
		errors.Is(err, service.ErrQuizInactive),
		errors.Is(err, service.ErrQuizEmpty),
		errors.Is(err, service.ErrSessionClosed):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrEmptyUpload):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrGenerationFailed):
		logger.Error("upstream generation failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, errorResponse{Error: "generation service unavailable"})
	default:
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
