package controllers

import (
	"net/http"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/services"

	"github.com/gin-gonic/gin"
)

// CartController handles the caller's cart.
type CartController struct {
	cartService services.CartService
}

// NewCartController creates a new CartController.
func NewCartController(svc services.CartService) *CartController {
	return &CartController{cartService: svc}
}

// GetCart handles GET /cart
func (cc *CartController) GetCart(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	cart, svcErr := cc.cartService.GetCart(ctx.Request.Context(), identity.UserID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, cart)
}

// AddItem handles POST /cart/items
func (cc *CartController) AddItem(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	var req models.AddToCartRequest
	if !bindJSON(ctx, &req) {
		return
	}

	line, svcErr := cc.cartService.AddItem(ctx.Request.Context(), identity.UserID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, line)
}

// UpdateItem handles PATCH /cart/items/:id
func (cc *CartController) UpdateItem(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.UpdateCartItemRequest
	if !bindJSON(ctx, &req) {
		return
	}

	line, svcErr := cc.cartService.UpdateItem(ctx.Request.Context(), identity.UserID, id, req.Quantity)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, line)
}

// RemoveItem handles DELETE /cart/items/:id
func (cc *CartController) RemoveItem(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	if svcErr := cc.cartService.RemoveItem(ctx.Request.Context(), identity.UserID, id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Clear handles DELETE /cart
func (cc *CartController) Clear(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	if svcErr := cc.cartService.Clear(ctx.Request.Context(), identity.UserID); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.Status(http.StatusNoContent)
}
