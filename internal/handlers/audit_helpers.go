package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDContextKey = "request_id"

// requestIDFromContext returns the request id for the current request,
// preferring one set earlier in the chain, then the X-Request-ID
// header, then a fresh uuid. The resolved id is cached on the context
// so every emitter in the request sees the same value.
func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

// callerIDFromContext returns the authenticated caller's id as set by
// the auth middleware, or nil for unauthenticated requests.
func callerIDFromContext(c *gin.Context) *int {
	if id := c.GetInt("userID"); id != 0 {
		return &id
	}
	return nil
}
