package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/todoapp/todo-api/internal/api/metrics"
)

const defaultCleanupInterval = 5 * time.Minute

// RateLimiterConfig sets the per-client token bucket.
type RateLimiterConfig struct {
	PerMinute       float64
	Burst           int
	CleanupInterval time.Duration
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter throttles requests per client IP. Idle entries are evicted by
// a background loop until Stop is called.
type RateLimiter struct {
	perMin  float64
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	log     zerolog.Logger

	mu      sync.Mutex
	clients map[string]*clientLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(cfg RateLimiterConfig, log zerolog.Logger) *RateLimiter {
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = defaultCleanupInterval
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	rl := &RateLimiter{
		perMin:  cfg.PerMinute,
		limit:   rate.Limit(cfg.PerMinute / 60),
		burst:   burst,
		idleTTL: interval,
		log:     log,
		clients: make(map[string]*clientLimiter),
		stopCh:  make(chan struct{}),
	}
	go rl.cleanupLoop(interval)
	return rl
}

// Stop ends the cleanup loop. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Middleware rejects over-limit clients with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if rl.get(ip).Allow() {
				return next(c)
			}

			metrics.RateLimitedTotal.WithLabelValues(c.Path()).Inc()
			rl.log.Warn().Str("ip", ip).Str("path", c.Path()).Msg("rate limit exceeded")
			c.Response().Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
			return c.JSON(http.StatusTooManyRequests, errorBody{Error: "too many requests"})
		}
	}
}

// Len reports the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastAccess = time.Now()
	return cl.limiter
}

func (rl *RateLimiter) retryAfter() int {
	if rl.perMin <= 0 {
		return 60
	}
	return int(math.Ceil(60 / rl.perMin))
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.evictIdle(time.Now())
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, cl := range rl.clients {
		if now.Sub(cl.lastAccess) > rl.idleTTL {
			delete(rl.clients, key)
		}
	}
}
