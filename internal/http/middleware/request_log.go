package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lesson-admin/internal/platform/ctxutil"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
)

// Health and metrics routes are only logged when they fail.
var quietRoutes = map[string]bool{
	"/healthcheck": true,
	"/metrics":     true,
}

const statusClientClosed = 499

// RequestLogger writes one line per admin request after the handler chain
// has run, tagged with the route template and the ids set by
// AttachTraceContext.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if quietRoutes[route] && status < 400 {
			return
		}

		kv := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"path", c.Request.URL.Path,
			"status", status,
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
			"forwarded_token", ctxutil.BearerToken(c.Request.Context()) != "",
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			kv = append(kv, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			kv = append(kv, "errors", errs.String())
		}

		switch {
		case status == statusClientClosed:
			log.Info("admin request abandoned", kv...)
		case status >= 500:
			log.Error("admin request failed", kv...)
		case status >= 400:
			log.Warn("admin request rejected", kv...)
		default:
			log.Info("admin request", kv...)
		}
	}
}
