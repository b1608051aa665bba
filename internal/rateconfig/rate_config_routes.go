package rateconfig

import (
	"brokmang/internal/middleware"
	"brokmang/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer *rbac.Enforcer, logger *zap.Logger) {
	configs := r.Group("/rate-configs")
	configs.Use(middleware.AuthMiddleware())
	configs.Use(middleware.ContextLogger(logger))
	{
		configs.GET("/tax",
			middleware.RateLimitByUser(2, 5),
			middleware.Authorize(enforcer, "rate_config", "read"),
			h.GetActiveTax,
		)
		configs.GET("/tax/history",
			middleware.RateLimitByUser(2, 5),
			middleware.Authorize(enforcer, "rate_config", "read"),
			h.GetTaxHistory,
		)
		configs.POST("/tax",
			middleware.RateLimitByUser(0.1, 1),
			middleware.Authorize(enforcer, "rate_config", "write"),
			h.SetTax,
		)

		configs.GET("/commission",
			middleware.RateLimitByUser(2, 5),
			middleware.Authorize(enforcer, "rate_config", "read"),
			h.GetActiveCommission,
		)
		configs.GET("/commission/history",
			middleware.RateLimitByUser(2, 5),
			middleware.Authorize(enforcer, "rate_config", "read"),
			h.GetCommissionHistory,
		)
		configs.GET("/commission/estimate",
			middleware.RateLimitByUser(2, 5),
			middleware.Authorize(enforcer, "rate_config", "read"),
			h.EstimateCommission,
		)
		configs.POST("/commission",
			middleware.RateLimitByUser(0.1, 1),
			middleware.Authorize(enforcer, "rate_config", "write"),
			h.SetCommission,
		)
	}
}
