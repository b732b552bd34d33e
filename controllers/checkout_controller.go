package controllers

import (
	"net/http"
	"strings"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/services"

	"github.com/gin-gonic/gin"
)

const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"
)

// CheckoutController turns the caller's cart into an order.
type CheckoutController struct {
	checkoutService services.CheckoutService
}

// NewCheckoutController creates a new CheckoutController.
func NewCheckoutController(svc services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkoutService: svc}
}

// Checkout handles POST /checkout. A repeated Idempotency-Key answers 200 with the original result.
func (cc *CheckoutController) Checkout(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	var req models.CheckoutRequest
	if !bindJSON(ctx, &req) {
		return
	}
	key := strings.TrimSpace(ctx.GetHeader(IdempotencyKeyHeader))

	resp, replayed, svcErr := cc.checkoutService.Checkout(ctx.Request.Context(), identity, &req, key)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	if replayed {
		ctx.Header(IdempotentReplayedHeader, "true")
		ctx.JSON(http.StatusOK, resp)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}
