package middleware

import (
	"net/http"
	"sync"
	"time"

	"budgeto/logging"

	"github.com/gin-gonic/gin"
)

// attemptLimiter 按 key 记录窗口内的尝试时间
type attemptLimiter struct {
	mu          sync.Mutex
	maxAttempts int
	window      time.Duration
	attempts    map[string][]time.Time
	lastSweep   time.Time
}

func newAttemptLimiter(maxAttempts int, window time.Duration) *attemptLimiter {
	return &attemptLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		attempts:    make(map[string][]time.Time),
	}
}

// allow 记录一次尝试，超过上限返回 false（超限的尝试不计入）
func (l *attemptLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	if now.Sub(l.lastSweep) > l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}

	recent := prune(l.attempts[key], cutoff)
	if len(recent) >= l.maxAttempts {
		l.attempts[key] = recent
		return false
	}
	l.attempts[key] = append(recent, now)
	return true
}

// sweep 清理整个窗口内都没有尝试的 key
func (l *attemptLimiter) sweep(cutoff time.Time) {
	for key, ts := range l.attempts {
		if recent := prune(ts, cutoff); len(recent) == 0 {
			delete(l.attempts, key)
		} else {
			l.attempts[key] = recent
		}
	}
}

func prune(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// AuthRateLimit 登录注册接口限流中间件
// 每 IP 在 window 内最多 maxAttempts 次尝试，超过则返回 429
func AuthRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	limiter := newAttemptLimiter(maxAttempts, window)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.allow(ip, time.Now()) {
			logging.Logger.WithField("client_ip", ip).Warn("认证尝试过于频繁")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many attempts, please try again later",
			})
			return
		}
		c.Next()
	}
}
