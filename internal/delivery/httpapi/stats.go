package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartetude/smartetude-backend/internal/infra/postgres/repository"
)

// StatsHandler serves player gamification stats.
type StatsHandler struct {
	statsRepo *repository.StatsRepository
	logger    *zap.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsRepo *repository.StatsRepository, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{statsRepo: statsRepo, logger: logger}
}

// Get handles GET /users/:name/stats.
func (h *StatsHandler) Get(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		respondBadRequest(c, "missing user name")
		return
	}

	stats, err := h.statsRepo.GetByUserName(c.Request.Context(), name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toStatsResponse(stats))
}
