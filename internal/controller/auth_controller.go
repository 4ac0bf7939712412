package controller

import (
	"net/http"

	"farm-management/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthController handles registration and login.
type AuthController struct {
	accounts *service.Accounts
	logger   *zap.Logger
}

// NewAuthController creates a new auth controller.
func NewAuthController(accounts *service.Accounts, logger *zap.Logger) *AuthController {
	return &AuthController{accounts: accounts, logger: logger}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /v1/auth/register.
func (c *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, token, err := c.accounts.Register(ctx.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login handles POST /v1/auth/login.
func (c *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, token, err := c.accounts.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Refresh handles POST /v1/auth/refresh. It runs behind the auth
// middleware, so the caller's current token must still be valid.
func (c *AuthController) Refresh(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}

	user, token, err := c.accounts.Refresh(ctx.Request.Context(), caller)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}
