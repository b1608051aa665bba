package costledger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	costledgererrors "brokmang/internal/costledger/errors"
	"brokmang/internal/shared/apperror"
	"brokmang/internal/shared/period"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type mockService struct {
	addCostFn func(ctx context.Context, orgID, actorID string, req AddCostRequest) (CostEntryResponse, error)
	listFn    func(ctx context.Context, orgID string, businessUnitID *string, month period.Month) (CostBreakdown, error)
	updateFn  func(ctx context.Context, orgID, id string, req UpdateCostStatusRequest) (CostEntryResponse, error)
}

func (m *mockService) AddCost(ctx context.Context, orgID, actorID string, req AddCostRequest) (CostEntryResponse, error) {
	return m.addCostFn(ctx, orgID, actorID, req)
}

func (m *mockService) ListCosts(ctx context.Context, orgID string, businessUnitID *string, month period.Month) (CostBreakdown, error) {
	return m.listFn(ctx, orgID, businessUnitID, month)
}

func (m *mockService) UpdateStatus(ctx context.Context, orgID, id string, req UpdateCostStatusRequest) (CostEntryResponse, error) {
	return m.updateFn(ctx, orgID, id, req)
}

func (m *mockService) SumByMonth(ctx context.Context, orgID string, businessUnitID *string, month period.Month) (decimal.Decimal, decimal.Decimal, error) {
	return decimal.Zero, decimal.Zero, nil
}

func setupRouter(svc Service, orgID, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()

	handler := NewHandler(svc)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("org_id", orgID)
		c.Set("user_id", userID)
	})
	router.POST("/costs", handler.AddCost)
	router.GET("/costs", handler.ListCosts)
	router.PATCH("/costs/:id/status", handler.UpdateStatus)
	return router
}

func TestCostLedgerHandler_AddCost(t *testing.T) {
	orgID := uuid.New().String()
	userID := uuid.New().String()

	t.Run("passes tenant context from token, not body", func(t *testing.T) {
		svc := &mockService{
			addCostFn: func(ctx context.Context, oid, actorID string, req AddCostRequest) (CostEntryResponse, error) {
				assert.Equal(t, orgID, oid)
				assert.Equal(t, userID, actorID)
				return CostEntryResponse{ID: uuid.New().String(), Status: StatusPending}, nil
			},
		}
		router := setupRouter(svc, orgID, userID)

		body, _ := json.Marshal(AddCostRequest{
			Category:  "rent",
			Amount:    decimal.NewFromInt(60000),
			CostMonth: "2025-06",
		})
		req, _ := http.NewRequest(http.MethodPost, "/costs", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("missing required fields fail binding", func(t *testing.T) {
		router := setupRouter(&mockService{}, orgID, userID)

		req, _ := http.NewRequest(http.MethodPost, "/costs", bytes.NewBufferString(`{"amount":"100"}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service errors map onto their HTTP status", func(t *testing.T) {
		svc := &mockService{
			addCostFn: func(ctx context.Context, oid, actorID string, req AddCostRequest) (CostEntryResponse, error) {
				return CostEntryResponse{}, costledgererrors.ErrInvalidCategory
			},
		}
		router := setupRouter(svc, orgID, userID)

		body, _ := json.Marshal(AddCostRequest{
			Category:  "bribes",
			Amount:    decimal.NewFromInt(1),
			CostMonth: "2025-06",
		})
		req, _ := http.NewRequest(http.MethodPost, "/costs", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, costledgererrors.ErrInvalidCategory.HTTPStatus, w.Code)
	})
}

func TestCostLedgerHandler_AddCostIdempotency(t *testing.T) {
	orgID := uuid.New().String()
	userID := uuid.New().String()
	cacheKey := "idemp:/costs:" + userID + ":abc-123"
	lockKey := cacheKey + ":lock"

	setupIdempRouter := func(h *Handler) *gin.Engine {
		gin.SetMode(gin.TestMode)
		apperror.Init()

		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("org_id", orgID)
			c.Set("user_id", userID)
			c.Set("idempotency_cache_key", cacheKey)
			c.Set("idempotency_lock_key", lockKey)
		})
		router.POST("/costs", h.AddCost)
		return router
	}

	entryID := uuid.New().String()
	body, _ := json.Marshal(AddCostRequest{
		Category:  "rent",
		Amount:    decimal.NewFromInt(60000),
		CostMonth: "2025-06",
	})

	t.Run("caches the response and releases the lock on success", func(t *testing.T) {
		resp := CostEntryResponse{ID: entryID, Status: StatusPending}
		svc := &mockService{
			addCostFn: func(ctx context.Context, oid, actorID string, req AddCostRequest) (CostEntryResponse, error) {
				return resp, nil
			},
		}

		rdb, mock := redismock.NewClientMock()
		payload, _ := json.Marshal(resp)
		mock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		router := setupIdempRouter(NewHandlerWithRedis(svc, rdb))

		req, _ := http.NewRequest(http.MethodPost, "/costs", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("releases the lock without caching on failure", func(t *testing.T) {
		svc := &mockService{
			addCostFn: func(ctx context.Context, oid, actorID string, req AddCostRequest) (CostEntryResponse, error) {
				return CostEntryResponse{}, costledgererrors.ErrNegativeAmount
			},
		}

		rdb, mock := redismock.NewClientMock()
		mock.ExpectDel(lockKey).SetVal(1)

		router := setupIdempRouter(NewHandlerWithRedis(svc, rdb))

		req, _ := http.NewRequest(http.MethodPost, "/costs", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, costledgererrors.ErrNegativeAmount.HTTPStatus, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCostLedgerHandler_ListCosts(t *testing.T) {
	orgID := uuid.New().String()

	t.Run("malformed period is a bad request", func(t *testing.T) {
		router := setupRouter(&mockService{}, orgID, uuid.New().String())

		req, _ := http.NewRequest(http.MethodGet, "/costs?period=notamonth", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns the month breakdown", func(t *testing.T) {
		svc := &mockService{
			listFn: func(ctx context.Context, oid string, buID *string, month period.Month) (CostBreakdown, error) {
				assert.Equal(t, "2025-06", month.String())
				assert.Nil(t, buID)
				return CostBreakdown{
					Period:        "2025-06",
					FixedTotal:    decimal.NewFromInt(60000),
					VariableTotal: decimal.NewFromInt(20000),
				}, nil
			},
		}
		router := setupRouter(svc, orgID, uuid.New().String())

		req, _ := http.NewRequest(http.MethodGet, "/costs?period=2025-06", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var envelope struct {
			Ok   bool          `json:"ok"`
			Data CostBreakdown `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.True(t, envelope.Data.FixedTotal.Equal(decimal.NewFromInt(60000)))
	})
}
