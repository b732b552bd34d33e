package controllers

import (
	"net/http"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/services"

	"github.com/gin-gonic/gin"
)

// UserController handles profiles, user administration and saved addresses.
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController.
func NewUserController(svc services.UserService) *UserController {
	return &UserController{userService: svc}
}

// ListUsers handles GET /users
func (uc *UserController) ListUsers(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	resp, svcErr := uc.userService.ListUsers(ctx.Request.Context(), identity)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetProfile handles GET /users/profile
func (uc *UserController) GetProfile(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	profile, svcErr := uc.userService.GetProfile(ctx.Request.Context(), identity)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /users/profile
func (uc *UserController) UpdateProfile(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !bindJSON(ctx, &req) {
		return
	}

	profile, svcErr := uc.userService.UpdateProfile(ctx.Request.Context(), identity, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// ListAddresses handles GET /users/addresses
func (uc *UserController) ListAddresses(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	resp, svcErr := uc.userService.ListAddresses(ctx.Request.Context(), identity)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// AddAddress handles POST /users/addresses
func (uc *UserController) AddAddress(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	var req models.AddAddressRequest
	if !bindJSON(ctx, &req) {
		return
	}

	address, svcErr := uc.userService.AddAddress(ctx.Request.Context(), identity, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusCreated, address)
}

// UpdateAddress handles PATCH /users/addresses/:id
func (uc *UserController) UpdateAddress(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.UpdateAddressRequest
	if !bindJSON(ctx, &req) {
		return
	}

	address, svcErr := uc.userService.UpdateAddress(ctx.Request.Context(), identity, id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, address)
}

// DeleteAddress handles DELETE /users/addresses/:id
func (uc *UserController) DeleteAddress(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	if svcErr := uc.userService.DeleteAddress(ctx.Request.Context(), identity, id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.Status(http.StatusNoContent)
}
