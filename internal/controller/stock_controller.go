package controller

import (
	"net/http"

	"farm-management/internal/model"
	"farm-management/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockController handles stock items and the movement ledger.
type StockController struct {
	stock  *service.Stock
	logger *zap.Logger
}

// NewStockController creates a new stock controller.
func NewStockController(stock *service.Stock, logger *zap.Logger) *StockController {
	return &StockController{stock: stock, logger: logger}
}

type stockItemRequest struct {
	FarmID         uuid.UUID           `json:"farm_id"`
	Name           string              `json:"name"`
	ItemType       model.StockItemType `json:"item_type"`
	Quantity       float64             `json:"quantity"`
	Unit           string              `json:"unit"`
	AlertThreshold float64             `json:"alert_threshold"`
}

// CreateItem handles POST /v1/stock-items.
func (c *StockController) CreateItem(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	var req stockItemRequest
	if !bindJSON(ctx, &req) {
		return
	}

	item, err := c.stock.CreateItem(ctx.Request.Context(), caller, service.StockItemInput{
		FarmID:         req.FarmID,
		Name:           req.Name,
		ItemType:       req.ItemType,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		AlertThreshold: req.AlertThreshold,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, item)
}

// ListItems handles GET /v1/stock-items.
func (c *StockController) ListItems(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	farmID, err := queryUUID(ctx, "farm_id")
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	items, err := c.stock.ListItems(ctx.Request.Context(), caller, model.StockItemFilter{FarmID: farmID})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, items)
}

// GetItem handles GET /v1/stock-items/:id.
func (c *StockController) GetItem(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	item, err := c.stock.GetItem(ctx.Request.Context(), caller, id)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, item)
}

type stockItemUpdateRequest struct {
	Name           *string              `json:"name"`
	ItemType       *model.StockItemType `json:"item_type"`
	Unit           *string              `json:"unit"`
	AlertThreshold *float64             `json:"alert_threshold"`
}

// UpdateItem handles PATCH /v1/stock-items/:id. The quantity is absent
// from the payload on purpose: only movements change it.
func (c *StockController) UpdateItem(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req stockItemUpdateRequest
	if !bindJSON(ctx, &req) {
		return
	}

	item, err := c.stock.UpdateItem(ctx.Request.Context(), caller, id, &model.StockItemUpdate{
		Name:           req.Name,
		ItemType:       req.ItemType,
		Unit:           req.Unit,
		AlertThreshold: req.AlertThreshold,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /v1/stock-items/:id.
func (c *StockController) DeleteItem(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.stock.DeleteItem(ctx.Request.Context(), caller, id); err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

type movementRequest struct {
	StockItemID  uuid.UUID          `json:"stock_item_id"`
	MovementType model.MovementType `json:"movement_type"`
	Quantity     float64            `json:"quantity"`
	Date         string             `json:"date"`
	LotID        *uuid.UUID         `json:"lot_id"`
	Reason       string             `json:"reason"`
}

// CreateMovement handles POST /v1/stock-movements. Movements have no
// update or delete routes: the ledger is append-only.
func (c *StockController) CreateMovement(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	var req movementRequest
	if !bindJSON(ctx, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	movement, err := c.stock.RecordMovement(ctx.Request.Context(), caller, service.MovementInput{
		StockItemID:  req.StockItemID,
		MovementType: req.MovementType,
		Quantity:     req.Quantity,
		Date:         date,
		LotID:        req.LotID,
		Reason:       req.Reason,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, movement)
}

// ListMovements handles GET /v1/stock-movements.
func (c *StockController) ListMovements(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	itemID, err := queryUUID(ctx, "stock_item_id")
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	farmID, err := queryUUID(ctx, "farm_id")
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	movements, err := c.stock.ListMovements(ctx.Request.Context(), caller, model.StockMovementFilter{
		StockItemID: itemID,
		FarmID:      farmID,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, movements)
}
