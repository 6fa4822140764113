package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lesson-admin/internal/observability"
)

const unmatchedRoute = "unmatched"

// Metrics records request count, latency and in-flight requests per route
// template. It is a no-op when m is nil.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.APIInflightInc()
		defer m.APIInflightDec()

		c.Next()

		m.ObserveAPI(c.Request.Method, metricRoute(c), c.Writer.Status(), time.Since(start))
	}
}

// metricRoute is the matched template, or the id-collapsed path when gin had no
// route. Unknown paths that 404 share one label.
func metricRoute(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	if c.Writer.Status() == http.StatusNotFound {
		return unmatchedRoute
	}
	return observability.RouteLabel(c.Request.URL.Path)
}
