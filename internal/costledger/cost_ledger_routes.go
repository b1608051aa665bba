package costledger

import (
	"brokmang/internal/middleware"
	"brokmang/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	enforcer *rbac.Enforcer,
	logger *zap.Logger,
	idempotency gin.HandlerFunc,
) {
	costs := r.Group("/costs")
	costs.Use(middleware.AuthMiddleware())
	costs.Use(middleware.ContextLogger(logger))
	{
		costs.GET("",
			middleware.RateLimitByUser(2, 5),
			middleware.Authorize(enforcer, "cost_entry", "read"),
			h.ListCosts,
		)
		costs.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(enforcer, "cost_entry", "write"),
			idempotency,
			h.AddCost,
		)
		costs.PATCH("/:id/status",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(enforcer, "cost_entry", "approve"),
			h.UpdateStatus,
		)
	}
}
