package salary

import (
	"brokmang/internal/middleware"
	"brokmang/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer *rbac.Enforcer, logger *zap.Logger) {
	salaries := r.Group("/salaries")
	salaries.Use(middleware.AuthMiddleware())
	salaries.Use(middleware.ContextLogger(logger))
	{
		salaries.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(enforcer, "salary", "write"),
			h.SetSalary,
		)
		salaries.GET("/agents/:agentId",
			middleware.RateLimitByUser(2, 5),
			middleware.Authorize(enforcer, "salary", "read"),
			h.GetHistory,
		)
	}
}
