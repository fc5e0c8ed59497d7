package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"houseshow-backend/utils"
)

// FixedWindowRateLimiter allows limit requests per client per window.
type FixedWindowRateLimiter struct {
	sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
}

type window struct {
	start time.Time
	count int
}

func NewFixedWindowLimiter(limit int, w time.Duration) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  w,
		now:     time.Now,
	}
}

// Allow records a request from key and reports whether it is within the
// limit; otherwise it returns how long until the window resets.
func (rl *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	rl.Lock()
	defer rl.Unlock()

	now := rl.now()
	w, ok := rl.clients[key]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.evictExpired(now)
		rl.clients[key] = &window{start: now, count: 1}
		return true, 0
	}
	if w.count < rl.limit {
		w.count++
		return true, 0
	}
	return false, rl.window - now.Sub(w.start)
}

func (rl *FixedWindowRateLimiter) evictExpired(now time.Time) {
	for k, w := range rl.clients {
		if now.Sub(w.start) >= rl.window {
			delete(rl.clients, k)
		}
	}
}

func RateLimit(rl *FixedWindowRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ok, retryAfter := rl.Allow(c.ClientIP()); !ok {
			c.Header("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()+0.5))
			utils.JSONError(c, http.StatusTooManyRequests, "error.rateLimited", "too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
