package controller

import (
	"net/http"

	"farm-management/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReferenceController serves the breeding type and species catalogue.
type ReferenceController struct {
	reference *service.Reference
	logger    *zap.Logger
}

// NewReferenceController creates a new reference data controller.
func NewReferenceController(reference *service.Reference, logger *zap.Logger) *ReferenceController {
	return &ReferenceController{reference: reference, logger: logger}
}

// ListBreedingTypes handles GET /v1/breeding-types.
func (c *ReferenceController) ListBreedingTypes(ctx *gin.Context) {
	types, err := c.reference.ListBreedingTypes(ctx.Request.Context())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, types)
}

// ListSpecies handles GET /v1/species.
func (c *ReferenceController) ListSpecies(ctx *gin.Context) {
	species, err := c.reference.ListSpecies(ctx.Request.Context())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, species)
}
