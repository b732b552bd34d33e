package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/middleware"
	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalyticsController handles event tracking and the admin reports.
type AnalyticsController struct {
	analyticsService services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController.
func NewAnalyticsController(svc services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: svc}
}

// TrackEvent handles POST /analytics/events. Authentication is optional.
func (ac *AnalyticsController) TrackEvent(ctx *gin.Context) {
	var req models.TrackEventRequest
	if !bindJSON(ctx, &req) {
		return
	}

	var userID *uuid.UUID
	if identity, ok := middleware.GetIdentity(ctx); ok {
		userID = &identity.UserID
	}

	if svcErr := ac.analyticsService.Track(ctx.Request.Context(), userID, &req); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Dashboard handles GET /analytics/dashboard
func (ac *AnalyticsController) Dashboard(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	metrics, svcErr := ac.analyticsService.Dashboard(ctx.Request.Context(), identity, ctx.DefaultQuery("period", "30d"))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, metrics)
}

// Sales handles GET /analytics/sales
func (ac *AnalyticsController) Sales(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	from, to, ok := reportWindow(ctx)
	if !ok {
		return
	}

	report, svcErr := ac.analyticsService.Sales(ctx.Request.Context(), identity, models.SalesQuery{
		From:    from,
		To:      to,
		GroupBy: models.ReportGrouping(ctx.Query("groupBy")),
	})
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, report)
}

// TopProducts handles GET /analytics/products
func (ac *AnalyticsController) TopProducts(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	from, to, ok := reportWindow(ctx)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	resp, svcErr := ac.analyticsService.TopProducts(ctx.Request.Context(), identity, models.TopProductsQuery{
		From:  from,
		To:    to,
		Limit: limit,
	})
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// reportWindow reads the optional startDate and endDate bounds.
func reportWindow(ctx *gin.Context) (from, to *time.Time, ok bool) {
	from, err := dateQuery(ctx, "startDate")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate", "details": err.Error()})
		return nil, nil, false
	}
	to, err = dateQuery(ctx, "endDate")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate", "details": err.Error()})
		return nil, nil, false
	}
	return from, to, true
}
