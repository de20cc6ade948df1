package mw

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP and forgets clients that
// have been idle longer than idleTTL.
type IPRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	r         rate.Limit
	b         int
	idleTTL   time.Duration
	lastEvict time.Time
	now       func() time.Time
}

// NewIPRateLimiter creates a new IPRateLimiter.
func NewIPRateLimiter(r rate.Limit, b int, idleTTL time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		r:        r,
		b:        b,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Allow reports whether a request from ip may proceed now.
func (i *IPRateLimiter) Allow(ip string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if i.idleTTL > 0 && now.Sub(i.lastEvict) > i.idleTTL {
		i.evictLocked(now)
	}
	v, ok := i.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Evict drops visitors idle for longer than idleTTL and returns how many.
func (i *IPRateLimiter) Evict() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.evictLocked(i.now())
}

func (i *IPRateLimiter) evictLocked(now time.Time) int {
	i.lastEvict = now
	cutoff := now.Add(-i.idleTTL)
	n := 0
	for ip, v := range i.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(i.visitors, ip)
			n++
		}
	}
	return n
}

// RateLimiter is a middleware for IP-based rate limiting.
func RateLimiter(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
