package ratelimiter

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const sweepEvery = 512

// ClientLimiter 按客户端标识维护令牌桶，并周期性清理长时间空闲的条目。
type ClientLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu       sync.Mutex
	clients  map[string]*client
	requests uint64
}

type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// New 创建限流器；rps 或 burst 非法时返回 nil，nil 限流器放行所有请求。
func New(rps float64, burst int, idleTTL time.Duration) *ClientLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &ClientLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		clients: make(map[string]*client),
	}
}

// Allow 尝试为 key 消耗一个令牌。被拒绝时返回建议的重试等待时间。
func (l *ClientLimiter) Allow(key string, now time.Time) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[key]
	if !ok {
		c = &client{bucket: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	l.requests++
	if l.requests%sweepEvery == 0 {
		l.sweep(now)
	}

	if c.bucket.AllowN(now, 1) {
		return true, 0
	}
	return false, l.retryAfter(c, now)
}

// Len 返回当前跟踪的客户端数量。
func (l *ClientLimiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *ClientLimiter) retryAfter(c *client, now time.Time) time.Duration {
	r := c.bucket.ReserveN(now, 1)
	if !r.OK() {
		return time.Second
	}
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	if delay <= 0 {
		return time.Second / time.Duration(l.burst)
	}
	return delay
}

func (l *ClientLimiter) sweep(now time.Time) {
	cutoff := now.Add(-l.idleTTL)
	for k, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, k)
		}
	}
}
