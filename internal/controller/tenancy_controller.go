package controller

import (
	"net/http"

	"farm-management/internal/model"
	"farm-management/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenancyController handles enterprises, memberships and farms.
type TenancyController struct {
	enterprises *service.Enterprises
	farms       *service.Farms
	logger      *zap.Logger
}

// NewTenancyController creates a new tenancy controller.
func NewTenancyController(enterprises *service.Enterprises, farms *service.Farms, logger *zap.Logger) *TenancyController {
	return &TenancyController{enterprises: enterprises, farms: farms, logger: logger}
}

type enterpriseRequest struct {
	Name string `json:"name"`
}

// CreateEnterprise handles POST /v1/enterprises.
func (c *TenancyController) CreateEnterprise(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	var req enterpriseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	ent, err := c.enterprises.Create(ctx.Request.Context(), caller, req.Name)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, ent)
}

// ListEnterprises handles GET /v1/enterprises.
func (c *TenancyController) ListEnterprises(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	ents, err := c.enterprises.List(ctx.Request.Context(), caller)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, ents)
}

// GetEnterprise handles GET /v1/enterprises/:id.
func (c *TenancyController) GetEnterprise(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	ent, err := c.enterprises.Get(ctx.Request.Context(), caller, id)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, ent)
}

type enterpriseUpdateRequest struct {
	Name *string `json:"name"`
}

// UpdateEnterprise handles PATCH /v1/enterprises/:id.
func (c *TenancyController) UpdateEnterprise(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req enterpriseUpdateRequest
	if !bindJSON(ctx, &req) {
		return
	}

	ent, err := c.enterprises.Update(ctx.Request.Context(), caller, id, &model.EnterpriseUpdate{Name: req.Name})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, ent)
}

// DeleteEnterprise handles DELETE /v1/enterprises/:id.
func (c *TenancyController) DeleteEnterprise(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.enterprises.Delete(ctx.Request.Context(), caller, id); err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

type membershipRequest struct {
	EnterpriseID uuid.UUID  `json:"enterprise_id"`
	UserEmail    string     `json:"user_email"`
	Role         model.Role `json:"role"`
}

// AddMember handles POST /v1/memberships.
func (c *TenancyController) AddMember(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	var req membershipRequest
	if !bindJSON(ctx, &req) {
		return
	}

	m, err := c.enterprises.AddMember(ctx.Request.Context(), caller, service.MembershipInput{
		EnterpriseID: req.EnterpriseID,
		UserEmail:    req.UserEmail,
		Role:         req.Role,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, m)
}

// ListMembers handles GET /v1/memberships?enterprise_id=.
func (c *TenancyController) ListMembers(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	entID, err := uuid.Parse(ctx.Query("enterprise_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation error",
			"message": "enterprise_id is required and must be a valid UUID",
		})
		return
	}

	ms, err := c.enterprises.ListMembers(ctx.Request.Context(), caller, entID)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, ms)
}

type membershipUpdateRequest struct {
	Role *model.Role `json:"role"`
}

// UpdateMember handles PATCH /v1/memberships/:id.
func (c *TenancyController) UpdateMember(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req membershipUpdateRequest
	if !bindJSON(ctx, &req) {
		return
	}

	m, err := c.enterprises.UpdateMember(ctx.Request.Context(), caller, id, &model.MembershipUpdate{Role: req.Role})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, m)
}

// RemoveMember handles DELETE /v1/memberships/:id.
func (c *TenancyController) RemoveMember(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.enterprises.RemoveMember(ctx.Request.Context(), caller, id); err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

type farmRequest struct {
	EnterpriseID uuid.UUID `json:"enterprise_id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
}

// CreateFarm handles POST /v1/farms.
func (c *TenancyController) CreateFarm(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	var req farmRequest
	if !bindJSON(ctx, &req) {
		return
	}

	farm, err := c.farms.Create(ctx.Request.Context(), caller, service.FarmInput{
		EnterpriseID: req.EnterpriseID,
		Name:         req.Name,
		Location:     req.Location,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, farm)
}

// ListFarms handles GET /v1/farms.
func (c *TenancyController) ListFarms(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	entID, err := queryUUID(ctx, "enterprise_id")
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	farms, err := c.farms.List(ctx.Request.Context(), caller, model.FarmFilter{EnterpriseID: entID})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, farms)
}

// GetFarm handles GET /v1/farms/:id.
func (c *TenancyController) GetFarm(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	farm, err := c.farms.Get(ctx.Request.Context(), caller, id)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, farm)
}

type farmUpdateRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
}

// UpdateFarm handles PATCH /v1/farms/:id.
func (c *TenancyController) UpdateFarm(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req farmUpdateRequest
	if !bindJSON(ctx, &req) {
		return
	}

	farm, err := c.farms.Update(ctx.Request.Context(), caller, id, &model.FarmUpdate{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, farm)
}

// DeleteFarm handles DELETE /v1/farms/:id.
func (c *TenancyController) DeleteFarm(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.farms.Delete(ctx.Request.Context(), caller, id); err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
