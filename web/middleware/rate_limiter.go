package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a new token bucket
func NewTokenBucket(maxTokens float64, refillRate float64) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow checks if a request can proceed and consumes a token if so
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()

	// Refill tokens based on elapsed time
	tb.tokens = min(tb.maxTokens, tb.tokens+(elapsed*tb.refillRate))
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// SessionRateLimiter limits inquiries per session so one citizen cannot
// monopolize the generation backend.
type SessionRateLimiter struct {
	perMinute int
	burst     int
	limits    map[string]*TokenBucket
	mu        sync.Mutex
	logger    *zap.Logger
}

func NewSessionRateLimiter(perMinute, burst int, logger *zap.Logger) *SessionRateLimiter {
	if perMinute <= 0 {
		perMinute = 20
	}
	if burst <= 0 {
		burst = 5
	}
	return &SessionRateLimiter{
		perMinute: perMinute,
		burst:     burst,
		limits:    make(map[string]*TokenBucket),
		logger:    logger,
	}
}

func (rl *SessionRateLimiter) bucket(sessionID string) *TokenBucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.limits[sessionID]
	if !ok {
		b = NewTokenBucket(float64(rl.burst), float64(rl.perMinute)/60.0)
		rl.limits[sessionID] = b
	}
	return b
}

// Middleware rejects requests over the per-session budget with 429.
func (rl *SessionRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("X-Session-ID")
		if sessionID == "" {
			sessionID = c.ClientIP()
		}
		if !rl.bucket(sessionID).Allow() {
			rl.logger.Warn("Rate limit exceeded", zap.String("session_id", sessionID))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many inquiries, please slow down",
			})
			return
		}
		c.Next()
	}
}
