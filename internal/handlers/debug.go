package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wellness-chat/internal/telemetry"
)

// RegisterDebugRoutes wires endpoints that only exist when the service
// runs in debug mode.
func RegisterDebugRoutes(router *gin.Engine, emitter *telemetry.AuditEmitter, enabled bool) {
	if !enabled {
		return
	}

	// Emits one audit event so the exchange binding can be verified
	// end to end without sending a chat message.
	router.GET("/debug/audit-test", func(c *gin.Context) {
		requestID := requestIDFromContext(c)
		emitter.Emit(c.Request.Context(), "info", "audit self-test", requestID, callerIDFromContext(c))
		c.JSON(http.StatusOK, gin.H{"status": "ok", "request_id": requestID})
	})
}
