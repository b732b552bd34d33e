package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/services"

	"github.com/gin-gonic/gin"
)

// IdentityContextKey is the gin context key holding the resolved models.Identity.
const IdentityContextKey = "identity"

// IdentityResolver turns a bearer token into the caller's identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*models.Identity, *services.ServiceError)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// RequireAuth rejects requests without a valid bearer token for an active user.
func RequireAuth(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}

		identity, svcErr := resolver.ResolveIdentity(c.Request.Context(), token)
		if svcErr != nil {
			c.AbortWithStatusJSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}

		c.Set(IdentityContextKey, *identity)
		c.Set("userID", identity.UserID.String())
		c.Next()
	}
}

// OptionalAuth resolves the caller when a usable token is present and otherwise proceeds anonymously.
func OptionalAuth(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if identity, svcErr := resolver.ResolveIdentity(c.Request.Context(), token); svcErr == nil {
				c.Set(IdentityContextKey, *identity)
				c.Set("userID", identity.UserID.String())
			}
		}
		c.Next()
	}
}

// GetIdentity extracts the identity stored by RequireAuth or OptionalAuth.
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	if val, ok := c.Get(IdentityContextKey); ok {
		if identity, ok := val.(models.Identity); ok {
			return identity, true
		}
	}
	return models.Identity{}, false
}

// RequirePermission restricts a route to callers holding p. It must run after RequireAuth.
func RequirePermission(p models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !identity.Can(p) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
