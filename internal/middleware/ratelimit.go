package middleware

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	// IdleTTL is how long a caller's bucket is kept after its last request.
	IdleTTL time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimiter keeps one token bucket per caller: the session identity when
// there is one, the client IP otherwise. Buckets idle for longer than
// IdleTTL are swept on a later request.
type RateLimiter struct {
	config   RateLimitConfig
	visitors sync.Map
	now      func() time.Time

	sweepMu   sync.Mutex
	lastSweep time.Time
}

func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 600
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	// A bucket dropped before it refilled would hand its caller a fresh burst.
	refill := time.Duration(cfg.Burst) * time.Minute / time.Duration(cfg.RequestsPerMinute)
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	cfg.IdleTTL = max(cfg.IdleTTL, refill)
	return &RateLimiter{config: cfg, now: time.Now, lastSweep: time.Now()}
}

func (rl *RateLimiter) getOrCreateLimiter(key string, now time.Time) *rate.Limiter {
	v, ok := rl.visitors.Load(key)
	if !ok {
		v, _ = rl.visitors.LoadOrStore(key, &visitor{limiter: rate.NewLimiter(
			rate.Every(time.Minute/time.Duration(rl.config.RequestsPerMinute)),
			rl.config.Burst,
		)})
	}
	vis := v.(*visitor)
	vis.lastSeen.Store(now.UnixNano())
	return vis.limiter
}

func (rl *RateLimiter) sweep(now time.Time) {
	if !rl.sweepMu.TryLock() {
		return
	}
	defer rl.sweepMu.Unlock()
	if now.Sub(rl.lastSweep) < rl.config.IdleTTL {
		return
	}
	rl.lastSweep = now

	cutoff := now.Add(-rl.config.IdleTTL).UnixNano()
	rl.visitors.Range(func(key, v any) bool {
		if v.(*visitor).lastSeen.Load() < cutoff {
			rl.visitors.Delete(key)
		}
		return true
	})
}

// Middleware must run after SessionLoader so signed-in callers are keyed by
// identity.
func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "ip:" + c.IP()
		if session := Session(c); session.Authenticated() {
			key = "id:" + session.Identity
		}

		now := rl.now()
		rl.sweep(now)
		if !rl.getOrCreateLimiter(key, now).Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
