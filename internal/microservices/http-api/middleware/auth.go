package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"
)

// Context keys set by AuthMiddleware.
const (
	ClaimsKey = "claims"
	UserIDKey = "userID"
	ScopesKey = "scopes"
	RoleKey   = "role"
)

func deny(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "kind": "UNAUTHORIZED"})
}

// AuthMiddleware admits requests carrying a valid bearer access token of an
// active account.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			deny(c, http.StatusUnauthorized, "missing authorization header")
			return
		}

		// "Bearer <token>"
		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			deny(c, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		claims, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			deny(c, http.StatusUnauthorized, "Bad credentials or user is not active")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Set(ScopesKey, claims.Scopes)
		c.Set(RoleKey, claims.Role)

		c.Next()
	}
}

// RequireScopes checks that the token grants every listed scope.
func RequireScopes(requiredScopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenScopes, ok := c.Get(ScopesKey)
		if !ok {
			deny(c, http.StatusForbidden, "Scopes not found in token")
			return
		}
		granted, ok := tokenScopes.([]string)
		if !ok {
			deny(c, http.StatusForbidden, "Invalid scope format")
			return
		}

		if !hasAllScopes(granted, requiredScopes) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "Insufficient scopes",
				"kind":     "FORBIDDEN",
				"required": requiredScopes,
			})
			return
		}
		c.Next()
	}
}

// hasAllScopes treats "*" as every scope and "books:*" as every books scope.
func hasAllScopes(tokenScopes, requiredScopes []string) bool {
	scopeSet := make(map[string]bool, len(tokenScopes))
	for _, scope := range tokenScopes {
		scopeSet[scope] = true
	}
	if scopeSet["*"] {
		return true
	}

	for _, required := range requiredScopes {
		if scopeSet[required] {
			continue
		}
		if !matchesWildcardScope(tokenScopes, required) {
			return false
		}
	}
	return true
}

func matchesWildcardScope(tokenScopes []string, required string) bool {
	for _, scope := range tokenScopes {
		if prefix, ok := strings.CutSuffix(scope, "*"); ok && strings.HasPrefix(required, prefix) {
			return true
		}
	}
	return false
}

// RequireRole checks the role claim.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(RoleKey)
		if userRole, ok := role.(string); !ok || userRole != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "Insufficient permissions",
				"kind":     "FORBIDDEN",
				"required": requiredRole,
			})
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}
