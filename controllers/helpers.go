package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/middleware"
	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func respondError(ctx *gin.Context, svcErr *services.ServiceError) {
	ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
}

// bindJSON binds the body into req and answers 400 on failure.
func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return false
	}
	return true
}

// requireIdentity returns the caller resolved by the auth middleware, answering 401 when absent.
func requireIdentity(ctx *gin.Context) (models.Identity, bool) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return models.Identity{}, false
	}
	return identity, true
}

// uuidParam parses the :name path parameter, answering 400 when it is not a UUID.
func uuidParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// parsePaginationParams reads limit and offset. Missing or malformed values are left at zero so the
// service applies its own defaults.
func parsePaginationParams(ctx *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	offset, _ := strconv.Atoi(ctx.Query("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

var errInvalidDate = errors.New("dates must be RFC 3339 or YYYY-MM-DD")

// dateQuery parses an optional RFC 3339 or YYYY-MM-DD query value.
func dateQuery(ctx *gin.Context, key string) (*time.Time, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, errInvalidDate
}
