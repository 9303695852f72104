package ratelimit

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Limiter 按客户端地址的滑动窗口限流器。
// 这是进程里唯一的跨请求共享状态,读写都在锁内完成。
type Limiter struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string][]time.Time
	now     func() time.Time
}

// NewLimiter 创建限流器,窗口固定为一分钟
func NewLimiter() *Limiter {
	return &Limiter{
		window:  time.Minute,
		entries: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow 判断scope下的client是否还可以发起请求,允许时记录本次请求。
// limit<=0表示不限流。
func (l *Limiter) Allow(scope, client string, limit int) bool {
	if limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	key := scope + "|" + client

	// 淘汰窗口外的记录
	hits := l.entries[key]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= limit {
		l.entries[key] = kept
		return false
	}

	l.entries[key] = append(kept, now)
	return true
}

// Middleware 返回gin限流中间件,超限时直接响应429,不再进入处理函数
func Middleware(limiter *Limiter, scope string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(scope, c.ClientIP(), limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": fmt.Sprintf("Rate limit exceeded: %d per minute", limit),
			})
			return
		}
		c.Next()
	}
}
