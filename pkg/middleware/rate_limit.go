package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware counts requests per client IP in fixed redis windows.
func RateLimitMiddleware(redisClient *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s", c.ClientIP())

		ctx := c.Request.Context()
		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "rate limit check failed"})
			c.Abort()
			return
		}

		if count == 1 {
			if err := redisClient.Expire(ctx, key, window).Err(); err != nil {
				// A counter without TTL would block the client for good.
				redisClient.Del(ctx, key)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "rate limit check failed"})
				c.Abort()
				return
			}
		}

		if count > int64(limit) {
			if ttl, err := redisClient.TTL(ctx, key).Result(); err == nil && ttl < 0 {
				redisClient.Expire(ctx, key, window)
			}
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}

type ipLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// LocalRateLimitMiddleware keeps one token bucket per client IP in process memory.
func LocalRateLimitMiddleware(perMinute int, burst int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	var (
		mu       sync.Mutex
		limiters = make(map[string]*ipLimiter)
		lastGC   = time.Now()
	)
	every := rate.Every(time.Minute / time.Duration(perMinute))

	get := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		if now.Sub(lastGC) > 5*time.Minute {
			for k, e := range limiters {
				if now.Sub(e.lastSeen) > 15*time.Minute {
					delete(limiters, k)
				}
			}
			lastGC = now
		}

		e, ok := limiters[ip]
		if !ok {
			e = &ipLimiter{lim: rate.NewLimiter(every, burst)}
			limiters[ip] = e
		}
		e.lastSeen = now
		return e.lim
	}

	return func(c *gin.Context) {
		if !get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
