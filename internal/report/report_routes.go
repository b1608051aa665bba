package report

import (
	"brokmang/internal/middleware"
	"brokmang/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer *rbac.Enforcer, logger *zap.Logger) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	reports.Use(middleware.ContextLogger(logger))
	{
		reports.GET("/pnl",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "report", "read"),
			h.GetPnL,
		)
		reports.GET("/pnl/range",
			middleware.RateLimitByUser(1, 5),
			middleware.Authorize(enforcer, "report", "read"),
			h.GetPnLRange,
		)
		reports.GET("/pnl/rollup",
			middleware.RateLimitByUser(1, 5),
			middleware.Authorize(enforcer, "report", "read"),
			h.GetRollup,
		)
	}
}
