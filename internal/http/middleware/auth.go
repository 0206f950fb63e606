// README: Firebase auth middleware; binds the verified UID and role claim to the request.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bazaar/internal/infra"
)

const (
	uidKey  = "auth_uid"
	roleKey = "auth_role"
)

// Auth verifies the bearer token and stores the UID and the role custom
// claim on the context. Requests without a valid token are rejected.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token, err := verifier.VerifyIDToken(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(uidKey, token.UID)
		if role, ok := token.Claims["role"].(string); ok {
			c.Set(roleKey, role)
		}
		c.Next()
	}
}

// RequireRole guards a route group behind a role custom claim.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// GetUID returns the authenticated user id bound by Auth.
func GetUID(c *gin.Context) string {
	return c.GetString(uidKey)
}

// GetRole returns the role claim, empty when the token carried none.
func GetRole(c *gin.Context) string {
	return c.GetString(roleKey)
}
