package controllers

import (
	"net/http"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/services"

	"github.com/gin-gonic/gin"
)

// AuthController handles registration and login.
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates a new AuthController.
func NewAuthController(svc services.AuthService) *AuthController {
	return &AuthController{authService: svc}
}

// Register handles POST /auth/register
func (ac *AuthController) Register(ctx *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, svcErr := ac.authService.Register(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// Login handles POST /auth/login
func (ac *AuthController) Login(ctx *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, svcErr := ac.authService.Login(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
