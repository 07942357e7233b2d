package middleware

import (
	"net/http"

	"pollroom-backend/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionHeader carries the participant's opaque session identifier.
const SessionHeader = "x-session-id"

// ContextSessionID is the gin context key the resolved session id is
// stored under.
const ContextSessionID = "session_id"

// Session extracts the session id from the request header, minting a
// fresh one when absent. Minted ids are echoed back in the response
// header so the caller can persist and reuse them.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader(SessionHeader)
		if sid == "" {
			sid = session.Mint()
			c.Header(SessionHeader, sid)
		}
		c.Set(ContextSessionID, sid)
		c.Next()
	}
}

// RateLimit applies the advisory fail-open limiter per client IP and
// session. A nil limiter disables limiting entirely.
func RateLimit(limiter *session.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		key := c.ClientIP() + ":" + c.GetString(ContextSessionID)
		if !limiter.Allow(c.Request.Context(), key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "rate_limited",
				"details": "too many requests, slow down",
			})
			return
		}
		c.Next()
	}
}
