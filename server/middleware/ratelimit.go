package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/kbukum/podscribe/errors"
)

// RateLimitConfig configures per-client rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate allowed per key.
	RequestsPerSecond float64
	// Burst is the number of requests allowed at once.
	Burst int
	// KeyFunc extracts the rate limit key. Defaults to the client IP.
	KeyFunc func(*gin.Context) string
	// IdleTTL drops limiters of clients unseen for this long. Defaults to 10m.
	IdleTTL time.Duration
}

// RateLimit rejects requests over the per-key token bucket rate with a
// RATE_LIMITED error body and status 429.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}

	limiters := &limiterSet{
		clients: make(map[string]*client),
		limit:   rate.Limit(cfg.RequestsPerSecond),
		burst:   cfg.Burst,
		ttl:     cfg.IdleTTL,
	}

	return func(c *gin.Context) {
		if !limiters.allow(cfg.KeyFunc(c), time.Now()) {
			err := apperrors.RateLimited()
			c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
			return
		}
		c.Next()
	}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterSet struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
}

func (s *limiterSet) allow(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) > s.ttl {
		for k, cl := range s.clients {
			if now.Sub(cl.lastSeen) > s.ttl {
				delete(s.clients, k)
			}
		}
		s.lastSweep = now
	}

	cl, ok := s.clients[key]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}
