package controllers

import (
	"net/http"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderController handles direct orders and order administration.
type OrderController struct {
	orderService services.OrderService
}

// NewOrderController creates a new OrderController.
func NewOrderController(svc services.OrderService) *OrderController {
	return &OrderController{orderService: svc}
}

// CreateOrder handles POST /orders
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	var req models.CreateOrderRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, svcErr := oc.orderService.CreateOrder(ctx.Request.Context(), identity, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// ListOrders handles GET /orders. customerId only applies to callers allowed to read every order.
func (oc *OrderController) ListOrders(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	limit, offset := parsePaginationParams(ctx)
	filter := models.OrderFilter{
		Status:          models.OrderStatus(ctx.Query("status")),
		FinancialStatus: models.FinancialStatus(ctx.Query("financialStatus")),
		Limit:           limit,
		Offset:          offset,
	}
	if raw := ctx.Query("customerId"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customerId"})
			return
		}
		filter.CustomerID = &customerID
	}

	resp, svcErr := oc.orderService.ListOrders(ctx.Request.Context(), identity, filter)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetOrder handles GET /orders/:id
func (oc *OrderController) GetOrder(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	order, svcErr := oc.orderService.GetOrder(ctx.Request.Context(), identity, id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// UpdateOrder handles PATCH /orders/:id
func (oc *OrderController) UpdateOrder(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.UpdateOrderRequest
	if !bindJSON(ctx, &req) {
		return
	}

	order, svcErr := oc.orderService.UpdateOrder(ctx.Request.Context(), identity, id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, order)
}
