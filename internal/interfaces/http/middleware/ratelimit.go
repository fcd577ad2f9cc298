package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/shopsight/backend/internal/interfaces/http/dto"
)

// RateLimiter keeps one token bucket per client key
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*visitor
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
	sweptAt time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing perSecond requests per client
// with the given burst. Clients idle for ten minutes are forgotten.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		clients: make(map[string]*visitor),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		now:     time.Now,
	}
}

// Reserve takes one token for key. It returns zero when the request may
// proceed, otherwise how long the client should wait.
func (rl *RateLimiter) Reserve(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	v, ok := rl.clients[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = v
	}
	v.lastSeen = now

	if v.limiter.AllowN(now, 1) {
		return 0
	}
	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return rl.idleTTL
	}
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return wait
}

func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.sweptAt) < rl.idleTTL {
		return
	}
	for key, v := range rl.clients {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.clients, key)
		}
	}
	rl.sweptAt = now
}

// RateLimit rejects clients that exceed the limiter with 429 and a
// Retry-After header, keyed by client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		wait := limiter.Reserve(c.ClientIP())
		if wait <= 0 {
			c.Next()
			return
		}
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		c.AbortWithStatusJSON(http.StatusTooManyRequests,
			dto.NewErrorResponse(dto.ErrCodeRateLimited, "Too many requests", c.GetString(RequestIDKey)))
	}
}
