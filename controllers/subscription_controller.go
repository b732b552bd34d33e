package controllers

import (
	"net/http"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/services"

	"github.com/gin-gonic/gin"
)

// SubscriptionController handles recurring orders.
type SubscriptionController struct {
	subscriptionService services.SubscriptionService
}

// NewSubscriptionController creates a new SubscriptionController.
func NewSubscriptionController(svc services.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{subscriptionService: svc}
}

// CreateSubscription handles POST /subscriptions
func (sc *SubscriptionController) CreateSubscription(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	var req models.CreateSubscriptionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, svcErr := sc.subscriptionService.CreateSubscription(ctx.Request.Context(), identity, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// ListSubscriptions handles GET /subscriptions
func (sc *SubscriptionController) ListSubscriptions(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	limit, offset := parsePaginationParams(ctx)
	filter := models.SubscriptionFilter{
		Status: models.SubscriptionStatus(ctx.Query("status")),
		Limit:  limit,
		Offset: offset,
	}

	resp, svcErr := sc.subscriptionService.ListSubscriptions(ctx.Request.Context(), identity, filter)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// ManageSubscription handles PUT /subscriptions/:id
func (sc *SubscriptionController) ManageSubscription(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.ManageSubscriptionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, svcErr := sc.subscriptionService.ManageSubscription(ctx.Request.Context(), identity, id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// ListPlans handles GET /subscription-plans
func (sc *SubscriptionController) ListPlans(ctx *gin.Context) {
	plans, svcErr := sc.subscriptionService.ListPlans(ctx.Request.Context())
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"plans": plans})
}
