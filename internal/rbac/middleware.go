package rbac

import (
	"net/http"

	"vox-console/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireClient enforces the multi-tenant invariant: client_id must exist in context.
func RequireClient() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid, err := auth.ClientID(c.Request.Context())
		if err != nil || cid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "client_id required"})
			return
		}
		c.Next()
	}
}

// RequireAnyRole allows access if the caller has any of the provided roles.
// A session without an app role counts as DefaultRole. The service role bypasses all checks.
func RequireAnyRole(allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, _ := auth.Role(c.Request.Context())
		if IsService(role) {
			c.Next()
			return
		}
		if _, ok := allowedSet[effective(role)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
