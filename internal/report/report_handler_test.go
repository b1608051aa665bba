package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"brokmang/internal/org"
	"brokmang/internal/pnl"
	"brokmang/internal/shared/period"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type mockReportService struct {
	reportFn func(ctx context.Context, scope org.Scope, month period.Month) (pnl.Result, error)
	rangeFn  func(ctx context.Context, scope org.Scope, from, to period.Month) (RangeResponse, error)
	rollupFn func(ctx context.Context, orgID string, month period.Month) (RollupResponse, error)
}

func (m *mockReportService) Report(ctx context.Context, scope org.Scope, month period.Month) (pnl.Result, error) {
	return m.reportFn(ctx, scope, month)
}

func (m *mockReportService) ReportRange(ctx context.Context, scope org.Scope, from, to period.Month) (RangeResponse, error) {
	return m.rangeFn(ctx, scope, from, to)
}

func (m *mockReportService) Rollup(ctx context.Context, orgID string, month period.Month) (RollupResponse, error) {
	return m.rollupFn(ctx, orgID, month)
}

func setupRouter(svc Service, orgID string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(svc)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("org_id", orgID)
	})
	router.GET("/reports/pnl", handler.GetPnL)
	router.GET("/reports/pnl/range", handler.GetPnLRange)
	router.GET("/reports/pnl/rollup", handler.GetRollup)
	return router
}

func TestReportHandler_GetPnL(t *testing.T) {
	orgID := uuid.New().String()

	t.Run("defaults to the caller's organization scope", func(t *testing.T) {
		svc := &mockReportService{
			reportFn: func(ctx context.Context, scope org.Scope, month period.Month) (pnl.Result, error) {
				assert.Equal(t, org.ScopeOrganization, scope.Kind)
				assert.Equal(t, orgID, scope.ID)
				assert.Equal(t, "2025-06", month.String())
				return pnl.Result{ScopeKind: scope.Kind, ScopeID: scope.ID, Period: month.String()}, nil
			},
		}
		router := setupRouter(svc, orgID)

		req, _ := http.NewRequest(http.MethodGet, "/reports/pnl?period=2025-06", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("narrow scope requires an id", func(t *testing.T) {
		router := setupRouter(&mockReportService{}, orgID)

		req, _ := http.NewRequest(http.MethodGet, "/reports/pnl?period=2025-06&scope_kind=team", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown scope kind is rejected", func(t *testing.T) {
		router := setupRouter(&mockReportService{}, orgID)

		req, _ := http.NewRequest(http.MethodGet, "/reports/pnl?period=2025-06&scope_kind=region&scope_id=x", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed period is rejected", func(t *testing.T) {
		router := setupRouter(&mockReportService{}, orgID)

		req, _ := http.NewRequest(http.MethodGet, "/reports/pnl?period=Q2-2025", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReportHandler_GetPnLRange(t *testing.T) {
	orgID := uuid.New().String()

	svc := &mockReportService{
		rangeFn: func(ctx context.Context, scope org.Scope, from, to period.Month) (RangeResponse, error) {
			assert.Equal(t, "2025-01", from.String())
			assert.Equal(t, "2025-03", to.String())
			return RangeResponse{From: from.String(), To: to.String()}, nil
		},
	}
	router := setupRouter(svc, orgID)

	req, _ := http.NewRequest(http.MethodGet, "/reports/pnl/range?from=2025-01&to=2025-03", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReportHandler_GetRollup(t *testing.T) {
	orgID := uuid.New().String()

	svc := &mockReportService{
		rollupFn: func(ctx context.Context, oid string, month period.Month) (RollupResponse, error) {
			assert.Equal(t, orgID, oid)
			return RollupResponse{Period: month.String()}, nil
		},
	}
	router := setupRouter(svc, orgID)

	req, _ := http.NewRequest(http.MethodGet, "/reports/pnl/rollup?period=2025-06", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
