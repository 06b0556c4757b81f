package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

func NewRateLimiter(client *redis.Client, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{redisClient: client, logger: logger}
}

// Limit - фиксированное окно в Redis. Ключ по userId, если он уже есть в контексте, иначе по IP.
func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.GetString(UserIDKey)
		if subject == "" {
			subject = c.ClientIP()
		}
		key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, subject)

		count, err := rl.redisClient.Incr(c, key).Result()
		if err != nil {
			// Redis лег - не блокируем оплату
			rl.logger.Warn("rate limiter unavailable", "key", key, "error", err)
			c.Next()
			return
		}

		// первый запрос в окне - ставим TTL. Без TTL ключ заблокировал бы пользователя навсегда
		if count == 1 {
			if err := rl.redisClient.Expire(c, key, window).Err(); err != nil {
				rl.logger.Warn("rate limiter expire failed, dropping key", "key", key, "error", err)
				rl.redisClient.Del(c, key)
			}
		}

		if count > int64(limit) {
			ttl, err := rl.redisClient.TTL(c, key).Result()
			if err == nil && ttl < 0 {
				// ключ остался без TTL (упал EXPIRE и DEL) - чиним окно
				rl.logger.Warn("rate limiter key without ttl", "key", key)
				rl.redisClient.Expire(c, key, window)
				ttl = window
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":     "Too many requests",
				"retry_after": fmt.Sprintf("%.0f seconds", ttl.Seconds()),
			})
			return
		}
		c.Next()
	}
}
