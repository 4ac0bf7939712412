// Package controller exposes the application services over gin handlers
// and maps the sentinel error taxonomy onto HTTP statuses.
package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"farm-management/internal/auth"
	e "farm-management/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// respondError translates a service error into an HTTP response.
func respondError(ctx *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, e.ErrInvalidInput):
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation error",
			"message": err.Error(),
		})
	case errors.Is(err, e.ErrUnauthenticated):
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": err.Error(),
		})
	case errors.Is(err, e.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden",
			"message": "you do not have access to this resource",
		})
	case errors.Is(err, e.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{
			"error":   "Not found",
			"message": err.Error(),
		})
	case errors.Is(err, e.ErrConflict), errors.Is(err, e.ErrProtectedReference):
		ctx.JSON(http.StatusConflict, gin.H{
			"error":   "Conflict",
			"message": err.Error(),
		})
	case errors.Is(err, e.ErrContention):
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Service unavailable",
			"message": "the operation kept failing under contention, please retry",
		})
	default:
		logger.Error("unhandled error", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "an unexpected error occurred",
		})
	}
}

// callerID fetches the authenticated user, aborting with 401 when the
// auth middleware did not run.
func callerID(ctx *gin.Context) (uuid.UUID, bool) {
	id, ok := auth.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "authentication required",
		})
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses the :id path parameter, responding 400 on garbage.
func pathID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation error",
			"message": "id must be a valid UUID",
		})
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the request body, responding 400 on malformed input.
func bindJSON(ctx *gin.Context, dest any) bool {
	if err := ctx.ShouldBindJSON(dest); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation error",
			"message": err.Error(),
		})
		return false
	}
	return true
}

// parseDate parses a YYYY-MM-DD value.
func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: dates must use the %s format", e.ErrInvalidInput, dateLayout)
	}
	return t, nil
}

// parseOptionalDate parses a pointer date field from an update payload.
func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseDate(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// queryUUID parses an optional UUID query parameter.
func queryUUID(ctx *gin.Context, name string) (*uuid.UUID, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a valid UUID", e.ErrInvalidInput, name)
	}
	return &id, nil
}
