package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lesson-admin/internal/platform/ctxutil"
)

// AttachRequestContext carries the caller's bearer token on the request
// context so backend calls forward it. The token is never inspected.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := bearerToken(c.GetHeader("Authorization")); tok != "" {
			c.Request = c.Request.WithContext(ctxutil.WithBearerToken(c.Request.Context(), tok))
		}
		c.Next()
	}
}

func bearerToken(h string) string {
	h = strings.TrimSpace(h)
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
