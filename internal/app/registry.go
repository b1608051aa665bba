package app

import (
	"database/sql"
	"os"
	"time"

	"brokmang/internal/costledger"
	"brokmang/internal/deal"
	"brokmang/internal/messaging/kafka"
	"brokmang/internal/middleware"
	"brokmang/internal/org"
	"brokmang/internal/pnl"
	"brokmang/internal/rateconfig"
	"brokmang/internal/rbac"
	"brokmang/internal/report"
	"brokmang/internal/salary"
	"brokmang/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	orgRepo := org.NewRepository(gormDB)
	rateConfigRepo := rateconfig.NewRepository(gormDB)
	costRepo := costledger.NewRepository(gormDB)
	salaryRepo := salary.NewRepository(gormDB)
	dealRepo := deal.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Services ---
	rateConfigService := rateconfig.NewServiceWithOutbox(db, rateConfigRepo, outboxRepo)
	costService := costledger.NewServiceWithOutbox(db, costRepo, counterRepo, outboxRepo)
	salaryService := salary.NewService(db, salaryRepo)

	aggregator := pnl.NewAggregator(rateConfigService, dealRepo, costService, salaryService)
	reportCacheTTL := 10 * time.Minute
	if raw := os.Getenv("REPORT_CACHE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			reportCacheTTL = parsed
		}
	}
	reportCache := report.NewCache(rdb, reportCacheTTL)
	reportService := report.NewService(aggregator, orgRepo, reportCache)

	// --- Handlers ---
	rateConfigHandler := rateconfig.NewHandler(rateConfigService)
	costHandler := costledger.NewHandlerWithRedis(costService, rdb)
	salaryHandler := salary.NewHandler(salaryService)
	reportHandler := report.NewHandler(reportService)

	// --- Routes Registration ---
	logger := zap.L()
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(50), 100))

	api := router.Group("/api/v1")
	{
		rateconfig.RegisterRoutes(api, rateConfigHandler, enforcer, logger)
		costledger.RegisterRoutes(api, costHandler, enforcer, logger, middleware.Idempotency(rdb))
		salary.RegisterRoutes(api, salaryHandler, enforcer, logger)
		report.RegisterRoutes(api, reportHandler, enforcer, logger)
	}

	return nil
}
