package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/villagestay/villagestay/pkg/errors"
	"github.com/villagestay/villagestay/pkg/logger"
)

// RateLimiter is a fixed-window in-memory limiter keyed by user id and by client IP.
type RateLimiter struct {
	userLimits map[string]*window
	ipLimits   map[string]*window
	mu         sync.Mutex

	userMaxRequests int
	ipMaxRequests   int
	window          time.Duration
	now             func() time.Time
	done            chan struct{}
	closeOnce       sync.Once
}

type window struct {
	requests  int
	resetTime time.Time
}

// NewRateLimiter creates a limiter and starts its cleanup loop. Call Close to stop it.
func NewRateLimiter(userMaxRequests, ipMaxRequests int, w time.Duration) *RateLimiter {
	rl := &RateLimiter{
		userLimits:      make(map[string]*window),
		ipLimits:        make(map[string]*window),
		userMaxRequests: userMaxRequests,
		ipMaxRequests:   ipMaxRequests,
		window:          w,
		now:             time.Now,
		done:            make(chan struct{}),
	}

	go rl.cleanup(5 * time.Minute)

	return rl
}

// CheckUserLimit reports whether userID may make another request.
func (rl *RateLimiter) CheckUserLimit(userID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.allow(rl.userLimits, userID, rl.userMaxRequests)
}

// CheckIPLimit reports whether ip may make another request.
func (rl *RateLimiter) CheckIPLimit(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.allow(rl.ipLimits, ip, rl.ipMaxRequests)
}

func (rl *RateLimiter) GetUserRemaining(userID string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.remaining(rl.userLimits, userID, rl.userMaxRequests)
}

func (rl *RateLimiter) GetIPRemaining(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.remaining(rl.ipLimits, ip, rl.ipMaxRequests)
}

func (rl *RateLimiter) allow(limits map[string]*window, key string, max int) bool {
	now := rl.now()

	limit, exists := limits[key]
	if !exists || now.After(limit.resetTime) {
		limits[key] = &window{requests: 1, resetTime: now.Add(rl.window)}
		return max > 0
	}
	if limit.requests >= max {
		return false
	}
	limit.requests++
	return true
}

func (rl *RateLimiter) remaining(limits map[string]*window, key string, max int) int {
	limit, exists := limits[key]
	if !exists || rl.now().After(limit.resetTime) {
		return max
	}
	if r := max - limit.requests; r > 0 {
		return r
	}
	return 0
}

func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, limit := range rl.userLimits {
				if now.After(limit.resetTime) {
					delete(rl.userLimits, key)
				}
			}
			for key, limit := range rl.ipLimits {
				if now.After(limit.resetTime) {
					delete(rl.ipLimits, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Close stops the cleanup loop.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.done) })
}

// Reset clears all rate limits (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.userLimits = make(map[string]*window)
	rl.ipLimits = make(map[string]*window)
}

// HeaderRateLimitRemaining carries the smaller of the caller's IP and user budgets.
const HeaderRateLimitRemaining = "X-RateLimit-Remaining"

// RateLimit rejects requests over the per-IP budget and, once Authenticate
// has run, over the per-user budget.
func RateLimit(rl *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Response().Header()
			ip := c.RealIP()
			if !rl.CheckIPLimit(ip) {
				header.Set(HeaderRateLimitRemaining, "0")
				logger.Warn("Rate limit exceeded", "ip", ip, "path", c.Path())
				return errors.New(errors.ErrCodeRateLimitExceeded, "too many requests, please slow down")
			}
			remaining := rl.GetIPRemaining(ip)

			if userID := UserID(c); userID != "" {
				if !rl.CheckUserLimit(userID) {
					header.Set(HeaderRateLimitRemaining, "0")
					logger.Warn("Rate limit exceeded", "user_id", userID, "path", c.Path())
					return errors.New(errors.ErrCodeRateLimitExceeded, "too many requests, please slow down")
				}
				if r := rl.GetUserRemaining(userID); r < remaining {
					remaining = r
				}
			}

			header.Set(HeaderRateLimitRemaining, strconv.Itoa(remaining))
			return next(c)
		}
	}
}
