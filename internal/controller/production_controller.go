package controller

import (
	"net/http"

	"farm-management/internal/model"
	"farm-management/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductionController handles units, lots, daily records and lot events.
type ProductionController struct {
	production *service.Production
	logger     *zap.Logger
}

// NewProductionController creates a new production controller.
func NewProductionController(production *service.Production, logger *zap.Logger) *ProductionController {
	return &ProductionController{production: production, logger: logger}
}

type unitRequest struct {
	FarmID         uuid.UUID  `json:"farm_id"`
	BreedingTypeID *uuid.UUID `json:"breeding_type_id"`
	SpeciesID      *uuid.UUID `json:"species_id"`
	Name           string     `json:"name"`
	Capacity       int        `json:"capacity"`
	Conditions     string     `json:"conditions"`
}

// CreateUnit handles POST /v1/units.
func (c *ProductionController) CreateUnit(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	var req unitRequest
	if !bindJSON(ctx, &req) {
		return
	}

	unit, err := c.production.CreateUnit(ctx.Request.Context(), caller, service.UnitInput{
		FarmID:         req.FarmID,
		BreedingTypeID: req.BreedingTypeID,
		SpeciesID:      req.SpeciesID,
		Name:           req.Name,
		Capacity:       req.Capacity,
		Conditions:     req.Conditions,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, unit)
}

// ListUnits handles GET /v1/units.
func (c *ProductionController) ListUnits(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	farmID, err := queryUUID(ctx, "farm_id")
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	units, err := c.production.ListUnits(ctx.Request.Context(), caller, model.UnitFilter{
		FarmID:      farmID,
		SpeciesCode: ctx.Query("species_code"),
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, units)
}

// GetUnit handles GET /v1/units/:id.
func (c *ProductionController) GetUnit(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	unit, err := c.production.GetUnit(ctx.Request.Context(), caller, id)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, unit)
}

type unitUpdateRequest struct {
	FarmID         *uuid.UUID `json:"farm_id"`
	BreedingTypeID *uuid.UUID `json:"breeding_type_id"`
	SpeciesID      *uuid.UUID `json:"species_id"`
	Name           *string    `json:"name"`
	Capacity       *int       `json:"capacity"`
	Conditions     *string    `json:"conditions"`
}

// UpdateUnit handles PATCH /v1/units/:id.
func (c *ProductionController) UpdateUnit(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req unitUpdateRequest
	if !bindJSON(ctx, &req) {
		return
	}

	unit, err := c.production.UpdateUnit(ctx.Request.Context(), caller, id, &model.UnitUpdate{
		FarmID:         req.FarmID,
		BreedingTypeID: req.BreedingTypeID,
		SpeciesID:      req.SpeciesID,
		Name:           req.Name,
		Capacity:       req.Capacity,
		Conditions:     req.Conditions,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, unit)
}

// DeleteUnit handles DELETE /v1/units/:id.
func (c *ProductionController) DeleteUnit(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.production.DeleteUnit(ctx.Request.Context(), caller, id); err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

type lotRequest struct {
	UnitID       uuid.UUID `json:"unit_id"`
	SpeciesID    uuid.UUID `json:"species_id"`
	Code         string    `json:"code"`
	EntryDate    string    `json:"entry_date"`
	InitialCount int       `json:"initial_count"`
	Destination  string    `json:"destination"`
}

// CreateLot handles POST /v1/lots.
func (c *ProductionController) CreateLot(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	var req lotRequest
	if !bindJSON(ctx, &req) {
		return
	}
	entryDate, err := parseDate(req.EntryDate)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	lot, err := c.production.CreateLot(ctx.Request.Context(), caller, service.LotInput{
		UnitID:       req.UnitID,
		SpeciesID:    req.SpeciesID,
		Code:         req.Code,
		EntryDate:    entryDate,
		InitialCount: req.InitialCount,
		Destination:  req.Destination,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, lot)
}

// ListLots handles GET /v1/lots.
func (c *ProductionController) ListLots(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	unitID, err := queryUUID(ctx, "unit_id")
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	farmID, err := queryUUID(ctx, "farm_id")
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	lots, err := c.production.ListLots(ctx.Request.Context(), caller, model.LotFilter{
		UnitID:      unitID,
		FarmID:      farmID,
		SpeciesCode: ctx.Query("species_code"),
		Status:      model.LotStatus(ctx.Query("status")),
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, lots)
}

// GetLot handles GET /v1/lots/:id.
func (c *ProductionController) GetLot(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	lot, err := c.production.GetLot(ctx.Request.Context(), caller, id)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, lot)
}

type lotUpdateRequest struct {
	UnitID      *uuid.UUID       `json:"unit_id"`
	SpeciesID   *uuid.UUID       `json:"species_id"`
	Code        *string          `json:"code"`
	EntryDate   *string          `json:"entry_date"`
	Status      *model.LotStatus `json:"status"`
	Destination *string          `json:"destination"`
}

// UpdateLot handles PATCH /v1/lots/:id.
func (c *ProductionController) UpdateLot(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req lotUpdateRequest
	if !bindJSON(ctx, &req) {
		return
	}
	entryDate, err := parseOptionalDate(req.EntryDate)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	lot, err := c.production.UpdateLot(ctx.Request.Context(), caller, id, &model.LotUpdate{
		UnitID:      req.UnitID,
		SpeciesID:   req.SpeciesID,
		Code:        req.Code,
		EntryDate:   entryDate,
		Status:      req.Status,
		Destination: req.Destination,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, lot)
}

// DeleteLot handles DELETE /v1/lots/:id.
func (c *ProductionController) DeleteLot(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.production.DeleteLot(ctx.Request.Context(), caller, id); err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

type dailyRecordRequest struct {
	LotID           uuid.UUID `json:"lot_id"`
	Date            string    `json:"date"`
	Mortality       int       `json:"mortality"`
	FeedIntakeKg    float64   `json:"feed_intake_kg"`
	MilkProductionL float64   `json:"milk_production_l"`
	EggsCount       int       `json:"eggs_count"`
	AvgWeightKg     float64   `json:"avg_weight_kg"`
	Notes           string    `json:"notes"`
}

// CreateDailyRecord handles POST /v1/lot-records.
func (c *ProductionController) CreateDailyRecord(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	var req dailyRecordRequest
	if !bindJSON(ctx, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	rec, err := c.production.CreateDailyRecord(ctx.Request.Context(), caller, service.DailyRecordInput{
		LotID:           req.LotID,
		Date:            date,
		Mortality:       req.Mortality,
		FeedIntakeKg:    req.FeedIntakeKg,
		MilkProductionL: req.MilkProductionL,
		EggsCount:       req.EggsCount,
		AvgWeightKg:     req.AvgWeightKg,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, rec)
}

// ListDailyRecords handles GET /v1/lot-records.
func (c *ProductionController) ListDailyRecords(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	lotID, err := queryUUID(ctx, "lot_id")
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	filter := model.LotDailyRecordFilter{LotID: lotID}
	if raw := ctx.Query("date_from"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			respondError(ctx, c.logger, err)
			return
		}
		filter.DateFrom = &from
	}
	if raw := ctx.Query("date_to"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			respondError(ctx, c.logger, err)
			return
		}
		filter.DateTo = &to
	}

	recs, err := c.production.ListDailyRecords(ctx.Request.Context(), caller, filter)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, recs)
}

// GetDailyRecord handles GET /v1/lot-records/:id.
func (c *ProductionController) GetDailyRecord(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	rec, err := c.production.GetDailyRecord(ctx.Request.Context(), caller, id)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, rec)
}

type dailyRecordUpdateRequest struct {
	Date            *string  `json:"date"`
	Mortality       *int     `json:"mortality"`
	FeedIntakeKg    *float64 `json:"feed_intake_kg"`
	MilkProductionL *float64 `json:"milk_production_l"`
	EggsCount       *int     `json:"eggs_count"`
	AvgWeightKg     *float64 `json:"avg_weight_kg"`
	Notes           *string  `json:"notes"`
}

// UpdateDailyRecord handles PATCH /v1/lot-records/:id.
func (c *ProductionController) UpdateDailyRecord(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req dailyRecordUpdateRequest
	if !bindJSON(ctx, &req) {
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	rec, err := c.production.UpdateDailyRecord(ctx.Request.Context(), caller, id, &model.LotDailyRecordUpdate{
		Date:            date,
		Mortality:       req.Mortality,
		FeedIntakeKg:    req.FeedIntakeKg,
		MilkProductionL: req.MilkProductionL,
		EggsCount:       req.EggsCount,
		AvgWeightKg:     req.AvgWeightKg,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, rec)
}

// DeleteDailyRecord handles DELETE /v1/lot-records/:id.
func (c *ProductionController) DeleteDailyRecord(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.production.DeleteDailyRecord(ctx.Request.Context(), caller, id); err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

type healthEventRequest struct {
	LotID        uuid.UUID             `json:"lot_id"`
	Date         string                `json:"date"`
	EventType    model.HealthEventType `json:"event_type"`
	Product      string                `json:"product"`
	Dose         string                `json:"dose"`
	Veterinarian string                `json:"veterinarian"`
	Notes        string                `json:"notes"`
}

// CreateHealthEvent handles POST /v1/health-events.
func (c *ProductionController) CreateHealthEvent(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	var req healthEventRequest
	if !bindJSON(ctx, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ev, err := c.production.CreateHealthEvent(ctx.Request.Context(), caller, service.HealthEventInput{
		LotID:        req.LotID,
		Date:         date,
		EventType:    req.EventType,
		Product:      req.Product,
		Dose:         req.Dose,
		Veterinarian: req.Veterinarian,
		Notes:        req.Notes,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, ev)
}

// ListHealthEvents handles GET /v1/health-events.
func (c *ProductionController) ListHealthEvents(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	lotID, err := queryUUID(ctx, "lot_id")
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	evs, err := c.production.ListHealthEvents(ctx.Request.Context(), caller, model.LotEventFilter{LotID: lotID})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, evs)
}

type healthEventUpdateRequest struct {
	Date         *string                `json:"date"`
	EventType    *model.HealthEventType `json:"event_type"`
	Product      *string                `json:"product"`
	Dose         *string                `json:"dose"`
	Veterinarian *string                `json:"veterinarian"`
	Notes        *string                `json:"notes"`
}

// UpdateHealthEvent handles PATCH /v1/health-events/:id.
func (c *ProductionController) UpdateHealthEvent(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req healthEventUpdateRequest
	if !bindJSON(ctx, &req) {
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ev, err := c.production.UpdateHealthEvent(ctx.Request.Context(), caller, id, &model.HealthEventUpdate{
		Date:         date,
		EventType:    req.EventType,
		Product:      req.Product,
		Dose:         req.Dose,
		Veterinarian: req.Veterinarian,
		Notes:        req.Notes,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, ev)
}

// DeleteHealthEvent handles DELETE /v1/health-events/:id.
func (c *ProductionController) DeleteHealthEvent(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.production.DeleteHealthEvent(ctx.Request.Context(), caller, id); err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

type reproductionEventRequest struct {
	LotID         uuid.UUID `json:"lot_id"`
	Date          string    `json:"date"`
	EventType     string    `json:"event_type"`
	GestationDays int       `json:"gestation_days"`
	BornAlive     int       `json:"born_alive"`
	BornDead      int       `json:"born_dead"`
	Notes         string    `json:"notes"`
}

// CreateReproductionEvent handles POST /v1/reproduction-events.
func (c *ProductionController) CreateReproductionEvent(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	var req reproductionEventRequest
	if !bindJSON(ctx, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ev, err := c.production.CreateReproductionEvent(ctx.Request.Context(), caller, service.ReproductionEventInput{
		LotID:         req.LotID,
		Date:          date,
		EventType:     req.EventType,
		GestationDays: req.GestationDays,
		BornAlive:     req.BornAlive,
		BornDead:      req.BornDead,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, ev)
}

// ListReproductionEvents handles GET /v1/reproduction-events.
func (c *ProductionController) ListReproductionEvents(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	lotID, err := queryUUID(ctx, "lot_id")
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	evs, err := c.production.ListReproductionEvents(ctx.Request.Context(), caller, model.LotEventFilter{LotID: lotID})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, evs)
}

type reproductionEventUpdateRequest struct {
	Date          *string `json:"date"`
	EventType     *string `json:"event_type"`
	GestationDays *int    `json:"gestation_days"`
	BornAlive     *int    `json:"born_alive"`
	BornDead      *int    `json:"born_dead"`
	Notes         *string `json:"notes"`
}

// UpdateReproductionEvent handles PATCH /v1/reproduction-events/:id.
func (c *ProductionController) UpdateReproductionEvent(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req reproductionEventUpdateRequest
	if !bindJSON(ctx, &req) {
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ev, err := c.production.UpdateReproductionEvent(ctx.Request.Context(), caller, id, &model.ReproductionEventUpdate{
		Date:          date,
		EventType:     req.EventType,
		GestationDays: req.GestationDays,
		BornAlive:     req.BornAlive,
		BornDead:      req.BornDead,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, ev)
}

// DeleteReproductionEvent handles DELETE /v1/reproduction-events/:id.
func (c *ProductionController) DeleteReproductionEvent(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.production.DeleteReproductionEvent(ctx.Request.Context(), caller, id); err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
