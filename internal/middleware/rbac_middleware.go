package middleware

import (
	"net/http"

	"brokmang/internal/rbac"
	"brokmang/internal/shared/apperror"
	"brokmang/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Authorize gates a route on the caller's role grant. It runs after
// AuthMiddleware, which puts the token role into the gin context.
func Authorize(enforcer *rbac.Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := enforcer.Allowed(role, resource, action)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Authorization check failed", nil)
			c.Abort()
			return
		}
		if !allowed {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden,
				"You do not have permission to access this resource", resource+":"+action)
			c.Abort()
			return
		}

		c.Next()
	}
}
