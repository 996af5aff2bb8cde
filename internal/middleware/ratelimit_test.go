package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type steppedClock struct{ now time.Time }

func (s *steppedClock) Now() time.Time { return s.now }

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	clock := &steppedClock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	store := newMemoryRateStore(clock.Now)

	r := gin.New()
	r.Use(RateLimit(store, 2, time.Minute))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, do().Code)
	}

	w := do()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	require.Equal(t, "60", w.Header().Get("Retry-After"))
	require.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")

	clock.now = clock.now.Add(time.Minute)
	w = do()
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimit(nil, 0, time.Minute))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestMemoryRateStoreSweepsExpiredCounters(t *testing.T) {
	clock := &steppedClock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	store := newMemoryRateStore(clock.Now)
	ctx := context.Background()

	for i := 0; i < sweepThreshold; i++ {
		_, _, err := store.Increment(ctx, "k"+strconv.Itoa(i), time.Second)
		require.NoError(t, err)
	}
	require.Len(t, store.data, sweepThreshold)

	clock.now = clock.now.Add(2 * time.Second)
	count, ttl, err := store.Increment(ctx, "fresh", time.Second)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, time.Second, ttl)
	require.Len(t, store.data, 1)
}
