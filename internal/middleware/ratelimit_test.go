package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(limit int, now *time.Time) *rateLimiter {
	return &rateLimiter{
		limit:         limit,
		window:        10 * time.Second,
		last:          make(map[string]*windowCount),
		sweepInterval: 10 * time.Second,
		now: func() time.Time {
			return *now
		},
	}
}

func hit(l *rateLimiter, path string) (*gin.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("POST", path, nil)
	l.handle(c)
	return c, rec
}

func TestRateLimiterHandle_BlocksOverLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Now()
	limiter := newTestLimiter(2, &now)

	c, _ := hit(limiter, "/emotion-trends")
	require.False(t, c.IsAborted())
	c, _ = hit(limiter, "/emotion-trends")
	require.False(t, c.IsAborted())
	c, rec := hit(limiter, "/emotion-trends")
	require.True(t, c.IsAborted())
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Contains(t, rec.Body.String(), `"success":false`)

	c, _ = hit(limiter, "/semantic-frame-analysis")
	require.False(t, c.IsAborted())

	now = now.Add(11 * time.Second)
	c, _ = hit(limiter, "/emotion-trends")
	require.False(t, c.IsAborted())
}

func TestRateLimiterDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Now()
	limiter := newTestLimiter(0, &now)
	for i := 0; i < 5; i++ {
		c, _ := hit(limiter, "/health")
		require.False(t, c.IsAborted())
	}
}

func TestRateLimiterCleanupExpiredLocked_RemovesExpiredEntries(t *testing.T) {
	base := time.Now()
	limiter := newTestLimiter(1, &base)
	limiter.last["expired"] = &windowCount{start: base.Add(-20 * time.Second), count: 1}
	limiter.last["active"] = &windowCount{start: base.Add(-2 * time.Second), count: 1}

	limiter.mu.Lock()
	limiter.cleanupExpiredLocked(base)
	limiter.mu.Unlock()

	require.NotContains(t, limiter.last, "expired")
	require.Contains(t, limiter.last, "active")
	require.False(t, limiter.lastSweep.IsZero())
}
