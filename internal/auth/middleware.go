package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const callerContextKey = "auth.caller_id"

// Middleware extracts and validates the bearer token, rejecting anonymous
// callers before any core operation runs.
func Middleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractTokenFromHeader(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": err.Error(),
			})
			return
		}

		userID, err := ParseToken(tokenString, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "invalid token",
			})
			return
		}

		c.Set(callerContextKey, userID)
		c.Next()
	}
}

// CallerID returns the authenticated user ID stored by the middleware.
func CallerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(callerContextKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// SetCallerID injects a caller identity directly, for tests.
func SetCallerID(c *gin.Context, id uuid.UUID) {
	c.Set(callerContextKey, id)
}

func extractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" || tokenString == authHeader {
		return "", fmt.Errorf("invalid authorization format")
	}

	return tokenString, nil
}
