package controller

import (
	"net/http"
	"time"

	"farm-management/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DashboardController handles the farm KPI summary.
type DashboardController struct {
	dashboard service.DashboardService
	logger    *zap.Logger
}

// NewDashboardController creates a new dashboard controller.
func NewDashboardController(dashboard service.DashboardService, logger *zap.Logger) *DashboardController {
	return &DashboardController{dashboard: dashboard, logger: logger}
}

// GetSummary handles GET /v1/dashboard/summary
// Query parameters:
//   - farm_id (required): the farm to summarize
//   - as_of (optional): YYYY-MM-DD cutoff, defaults to now
func (c *DashboardController) GetSummary(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}

	farmIDStr := ctx.Query("farm_id")
	if farmIDStr == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Missing required parameter",
			"message": "farm_id is required",
		})
		return
	}
	farmID, err := uuid.Parse(farmIDStr)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation error",
			"message": "farm_id must be a valid UUID",
		})
		return
	}

	asOf := time.Now().UTC()
	if raw := ctx.Query("as_of"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondError(ctx, c.logger, err)
			return
		}
		asOf = parsed
	}

	summary, err := c.dashboard.Summary(ctx.Request.Context(), caller, farmID, asOf)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}
