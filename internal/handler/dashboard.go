package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wardwatch/wardwatch/apps/backend/internal/service"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/api"
	"go.uber.org/zap"
)

// SummaryProvider builds the ward overview. *service.DashboardService implements it.
type SummaryProvider interface {
	GetSummary(ctx context.Context, hours int) (*service.DashboardSummary, error)
}

// DashboardHandler implements dashboard API endpoints
type DashboardHandler struct {
	service SummaryProvider
	logger  *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service SummaryProvider, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger,
	}
}

// GetApiV1DashboardSummary retrieves the ward overview. Unsupported periods
// fall back to the last 24 hours.
func (h *DashboardHandler) GetApiV1DashboardSummary(c *gin.Context, params api.GetApiV1DashboardSummaryParams) {
	hours := valueOr(params.Hours, 24)

	summary, err := h.service.GetSummary(c.Request.Context(), hours)
	if err != nil {
		writeError(c, h.logger, err, "Failed to get dashboard summary", zap.Int("hours", hours))
		return
	}

	c.JSON(http.StatusOK, summary)
}
