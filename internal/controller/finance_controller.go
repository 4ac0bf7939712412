package controller

import (
	"net/http"

	"farm-management/internal/model"
	"farm-management/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FinanceController handles financial entries.
type FinanceController struct {
	finance *service.Finance
	logger  *zap.Logger
}

// NewFinanceController creates a new finance controller.
func NewFinanceController(finance *service.Finance, logger *zap.Logger) *FinanceController {
	return &FinanceController{finance: finance, logger: logger}
}

type financialEntryRequest struct {
	FarmID    uuid.UUID       `json:"farm_id"`
	LotID     *uuid.UUID      `json:"lot_id"`
	Date      string          `json:"date"`
	EntryType model.EntryType `json:"entry_type"`
	Category  string          `json:"category"`
	Amount    float64         `json:"amount"`
	Notes     string          `json:"notes"`
}

// Create handles POST /v1/financial-entries.
func (c *FinanceController) Create(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	var req financialEntryRequest
	if !bindJSON(ctx, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	entry, err := c.finance.Create(ctx.Request.Context(), caller, service.FinancialEntryInput{
		FarmID:    req.FarmID,
		LotID:     req.LotID,
		Date:      date,
		EntryType: req.EntryType,
		Category:  req.Category,
		Amount:    req.Amount,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, entry)
}

// List handles GET /v1/financial-entries.
func (c *FinanceController) List(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	farmID, err := queryUUID(ctx, "farm_id")
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	lotID, err := queryUUID(ctx, "lot_id")
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	entries, err := c.finance.List(ctx.Request.Context(), caller, model.FinancialEntryFilter{
		FarmID: farmID,
		LotID:  lotID,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, entries)
}

// Get handles GET /v1/financial-entries/:id.
func (c *FinanceController) Get(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	entry, err := c.finance.Get(ctx.Request.Context(), caller, id)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, entry)
}

type financialEntryUpdateRequest struct {
	FarmID    *uuid.UUID       `json:"farm_id"`
	LotID     *uuid.UUID       `json:"lot_id"`
	Date      *string          `json:"date"`
	EntryType *model.EntryType `json:"entry_type"`
	Category  *string          `json:"category"`
	Amount    *float64         `json:"amount"`
	Notes     *string          `json:"notes"`
}

// Update handles PATCH /v1/financial-entries/:id.
func (c *FinanceController) Update(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req financialEntryUpdateRequest
	if !bindJSON(ctx, &req) {
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	entry, err := c.finance.Update(ctx.Request.Context(), caller, id, &model.FinancialEntryUpdate{
		FarmID:    req.FarmID,
		LotID:     req.LotID,
		Date:      date,
		EntryType: req.EntryType,
		Category:  req.Category,
		Amount:    req.Amount,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, entry)
}

// Delete handles DELETE /v1/financial-entries/:id.
func (c *FinanceController) Delete(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.finance.Delete(ctx.Request.Context(), caller, id); err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
