package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "umkm-marketplace/internal/transport/http/response"
)

// RateLimit is a global token bucket.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		resp.Abort(c, http.StatusTooManyRequests, "")
	}
}

// idleBucketTTL is how long an unused per-address bucket is kept.
const idleBucketTTL = 10 * time.Minute

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// ipBuckets holds one limiter per client address. Buckets idle longer than
// ttl are swept at most once per ttl, on the request path.
type ipBuckets struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	ttl       time.Duration
	now       func() time.Time
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newIPBuckets(rps rate.Limit, burst int, ttl time.Duration) *ipBuckets {
	return &ipBuckets{rps: rps, burst: burst, ttl: ttl, now: time.Now, buckets: make(map[string]*bucket)}
}

func (b *ipBuckets) get(ip string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	if now.Sub(b.lastSweep) >= b.ttl {
		for k, v := range b.buckets {
			if now.Sub(v.seen) >= b.ttl {
				delete(b.buckets, k)
			}
		}
		b.lastSweep = now
	}
	e, ok := b.buckets[ip]
	if !ok {
		e = &bucket{lim: rate.NewLimiter(b.rps, b.burst)}
		b.buckets[ip] = e
	}
	e.seen = now
	return e.lim
}

func (b *ipBuckets) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buckets)
}

// RateLimitPerIP keeps one token bucket per client address.
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	return rateLimitPerIP(newIPBuckets(rps, burst, idleBucketTTL))
}

func rateLimitPerIP(b *ipBuckets) gin.HandlerFunc {
	return func(c *gin.Context) {
		if b.get(c.ClientIP()).Allow() {
			c.Next()
			return
		}
		resp.Abort(c, http.StatusTooManyRequests, "")
	}
}
