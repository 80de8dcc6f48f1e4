package middleware

import (
	"fmt"
	"strconv"
	"time"

	redisStore "kiosk-settlement/internal/adapter/storage/redis"
	"kiosk-settlement/pkg/apperror"
	"kiosk-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// DefaultRateLimitRules returns the per-group limits. The public groups
// (invoice creation, guest pay) are the ones that need them most.
func DefaultRateLimitRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		"invoices_create": {Limit: 30, Window: time.Minute},
		"invoices_read":   {Limit: 120, Window: time.Minute},
		"pay_guest":       {Limit: 20, Window: time.Minute},
		"wallet":          {Limit: 60, Window: time.Minute},
		"wallet_topup":    {Limit: 20, Window: time.Minute},
		"device":          {Limit: 240, Window: time.Minute},
	}
}

// RateLimiter creates a rate-limiting middleware for a given endpoint group.
// Redis failures let the request through.
func RateLimiter(store *redisStore.RateLimitStore, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", extractIdentifier(c), group)

		result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request (degraded mode)")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			retryAfter := result.ResetAt - time.Now().Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractIdentifier keys the counter by account, then device, then client IP.
func extractIdentifier(c *gin.Context) string {
	if acct := AccountID(c); acct != "" {
		return "acct:" + acct
	}
	if dev := c.Param("device_id"); dev != "" {
		return "dev:" + dev
	}
	return "ip:" + c.ClientIP()
}
