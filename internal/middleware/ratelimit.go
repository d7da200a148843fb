package middleware

import (
	"net/http"
	"sync"
	"time"

	"sessionaudio/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiter hands out one token bucket per client IP. Stale buckets
// are dropped after an idle period so the map does not grow forever.
type ipLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		burst:   burst,
		idleTTL: time.Hour,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > l.idleTTL {
		for key, b := range l.buckets {
			if now.Sub(b.lastSeen) > l.idleTTL {
				delete(l.buckets, key)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter.Allow()
}

// LoginLimiter throttles login attempts per client IP: 5 requests per
// 15 minutes. The attempt-counting lockout is layered separately on
// top of this.
func LoginLimiter() gin.HandlerFunc {
	l := newIPLimiter(rate.Every(15*time.Minute/5), 5)
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			util.Error(c, http.StatusTooManyRequests, "Too many login attempts, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
