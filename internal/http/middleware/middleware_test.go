package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lesson-admin/internal/observability"
	"github.com/yungbote/lesson-admin/internal/platform/ctxutil"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
)

func TestAttachRequestContextForwardsBearer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachRequestContext())
	var got string
	r.GET("/x", func(c *gin.Context) {
		got = ctxutil.BearerToken(c.Request.Context())
		c.Status(http.StatusOK)
	})

	cases := map[string]string{
		"Bearer abc":  "abc",
		"bearer  xyz": "xyz",
		"Basic zzz":   "",
		"":            "",
	}
	for header, want := range cases {
		got = "unset"
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
		if got != want {
			t.Fatalf("header %q: token=%q want %q", header, got, want)
		}
	}
}

func TestAttachTraceContextKeepsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var td *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		td = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if td == nil || td.RequestID != "req-1" || td.TraceID == "" {
		t.Fatalf("trace data=%+v", td)
	}
	if rec.Header().Get(headerRequestID) != "req-1" {
		t.Fatalf("response request id=%q", rec.Header().Get(headerRequestID))
	}
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	r := gin.New()
	r.Use(Metrics(m), RequestLogger(logger.Nop()))
	r.GET("/api/lessons/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/lessons/7", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	want := `admin_api_requests_total{method="GET",route="/api/lessons/:id",status="200"} 1`
	if !strings.Contains(string(body), want) {
		t.Fatalf("missing %q", want)
	}
}

func TestMetricsLabelsUnmatchedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(Metrics(m))
	r.GET("/api/lessons/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-admin/setup.php", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/random/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/lessons/9", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`admin_api_requests_total{method="GET",route="unmatched",status="404"} 2`,
		`admin_api_requests_total{method="POST",route="/api/lessons/:id",status="405"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in\n%s", want, body)
		}
	}
	if strings.Contains(body, "/random/42") {
		t.Fatalf("raw path leaked into labels")
	}
}

func TestRequestIDReplacedWhenUnsafe(t *testing.T) {
	if got := requestID("ok-123"); got != "ok-123" {
		t.Fatalf("requestID kept=%q", got)
	}
	if got := requestID("bad\r\nvalue"); got == "bad\r\nvalue" || got == "" {
		t.Fatalf("requestID should mint a new id, got %q", got)
	}
	if got := requestID(strings.Repeat("a", maxRequestIDLen+1)); len(got) > maxRequestIDLen {
		t.Fatalf("oversized id kept")
	}
}
