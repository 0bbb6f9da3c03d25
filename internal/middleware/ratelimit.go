package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"prime-slot-backend/internal/store"
)

type RateLimiter interface {
	Allow(ctx context.Context, subject, action string) (bool, error)
}

// LocalLimiter is a per-subject token bucket held in process.
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewLocalLimiter allows perWindow events per window for each subject.
func NewLocalLimiter(perWindow int, window time.Duration) *LocalLimiter {
	if perWindow < 1 {
		perWindow = 1
	}
	return &LocalLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perWindow) / window.Seconds()),
		burst:    perWindow,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, subject, action string) (bool, error) {
	key := subject + ":" + action

	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow(), nil
}

// RedisLimiter counts in fixed windows shared by every replica.
type RedisLimiter struct {
	store  *store.RedisStore
	limit  int
	window time.Duration
}

func NewRedisLimiter(s *store.RedisStore, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{store: s, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, subject, action string) (bool, error) {
	return l.store.CheckRateLimit(ctx, subject, action, l.limit, l.window)
}

// RateLimitMiddleware limits action per authenticated participant. Requests
// without an address pass through.
func RateLimitMiddleware(limiter RateLimiter, action string, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := Address(c)
		if !ok {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), addr.String(), action)
		if err != nil || !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": window.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
