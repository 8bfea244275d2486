package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter bounds how often command endpoints may hit the upstream,
// which throttles frequent behavior calls itself. Stale windows are
// pruned on access.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	span    time.Duration
	now     func() time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

func NewRateLimiter(limit int, span time.Duration) *RateLimiter {
	return NewRateLimiterWithNow(limit, span, time.Now)
}

func NewRateLimiterWithNow(limit int, span time.Duration, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		span:    span,
		now:     now,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for k, w := range rl.windows {
		if now.After(w.resetAt) {
			delete(rl.windows, k)
		}
	}

	w, exists := rl.windows[key]
	if !exists {
		rl.windows[key] = &window{count: 1, resetAt: now.Add(rl.span)}
		return true
	}
	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
