package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"brokmang/internal/middleware"
	"brokmang/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func perform(router *gin.Engine, userID string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/costs", nil)
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", c.GetHeader("X-Test-User"))
	})
	router.POST("/costs", middleware.RateLimitByUser(0.001, 2), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("requests past the burst are rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, perform(router, "user-a").Code)
		assert.Equal(t, http.StatusOK, perform(router, "user-a").Code)
		assert.Equal(t, http.StatusTooManyRequests, perform(router, "user-a").Code)
	})

	t.Run("limits are tracked per user", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, perform(router, "user-b").Code)
	})

	t.Run("unauthenticated requests pass through", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, perform(router, "").Code)
		assert.Equal(t, http.StatusOK, perform(router, "").Code)
		assert.Equal(t, http.StatusOK, perform(router, "").Code)
	})
}

func TestContextLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
	})
	router.Use(middleware.ContextLogger(zap.NewNop()))
	router.GET("/reports", func(c *gin.Context) {
		ctx := c.Request.Context()
		assert.NotNil(t, contextutil.GetLogger(ctx, nil))
		assert.Equal(t, "rid-42", contextutil.GetRequestID(ctx))
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("X-Request-ID", "rid-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rid-42", w.Header().Get("X-Request-ID"))
}
