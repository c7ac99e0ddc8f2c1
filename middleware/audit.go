package middleware

import (
	"net/http"
	"strings"
	"time"

	"speshway-platform/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// AuditMiddleware logs every content mutation as a structured event. Reads are
// not audited.
func AuditMiddleware(metrics *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		action := mapHTTPMethodToAction(c.Request.Method)
		if action == "" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		resource := resourceFromPath(c.FullPath())
		status := c.Writer.Status()

		GetLogger(c).Info("audit",
			"action", action,
			"resource", resource,
			"resource_id", c.Param("id"),
			"user_id", GetUserID(c),
			"role", GetRole(c),
			"ip", c.ClientIP(),
			"status", status,
			"success", status < http.StatusBadRequest,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		metrics.RecordAuditEvent(action, resource)
	}
}

// mapHTTPMethodToAction maps mutating HTTP methods to audit actions
func mapHTTPMethodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return "CREATE"
	case http.MethodPut, http.MethodPatch:
		return "UPDATE"
	case http.MethodDelete:
		return "DELETE"
	default:
		return ""
	}
}

// resourceFromPath turns "/api/home-banners/:id" into "home-banners".
func resourceFromPath(fullPath string) string {
	parts := strings.Split(strings.TrimPrefix(fullPath, "/api/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "unknown"
	}
	return parts[0]
}
