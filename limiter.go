package bento

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const msgTooManyRequests = "Too many requests. Please try again later."

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter rate-limits requests per client IP with a token bucket each.
type IPLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewIPLimiter allows max requests per IP per window, refilling one token
// every window/max. Buckets idle for three windows are dropped.
func NewIPLimiter(max int, window time.Duration) *IPLimiter {
	if max < 1 {
		max = 1
	}
	l := &IPLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(max)),
		burst:    max,
		idle:     3 * window,
		done:     make(chan struct{}),
	}
	go l.cleanup(window)
	return l
}

func (l *IPLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-l.idle)
			l.mu.Lock()
			for ip, v := range l.visitors {
				if v.lastSeen.Before(cutoff) {
					delete(l.visitors, ip)
				}
			}
			l.mu.Unlock()
		case <-l.done:
			return
		}
	}
}

// Allow reports whether ip may make another request now and spends a token if so.
func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	l.mu.Unlock()

	return v.limiter.Allow()
}

// Stop ends the cleanup goroutine.
func (l *IPLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Middleware rejects requests over the limit with 429 and a JSON error body.
func (l *IPLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				c.Response().Header().Set("Retry-After", "60")
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": msgTooManyRequests})
			}
			return next(c)
		}
	}
}
