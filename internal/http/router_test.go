package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/editor"
	"github.com/yungbote/lesson-admin/internal/forms"
	httpH "github.com/yungbote/lesson-admin/internal/http/handlers"
	"github.com/yungbote/lesson-admin/internal/observability"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/querycache"
	"github.com/yungbote/lesson-admin/internal/services"
)

// fakeBackend answers "METHOD path" with canned JSON and records every call.
type fakeBackend struct {
	mu      sync.Mutex
	routes  map[string]func(body []byte) (int, string)
	calls   []string
	bodies  map[string][]byte
	authHdr []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{routes: map[string]func([]byte) (int, string){}, bodies: map[string][]byte{}}
}

func (b *fakeBackend) on(route string, status int, body string) {
	b.routes[route] = func([]byte) (int, string) { return status, body }
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	route := r.Method + " " + r.URL.Path
	b.mu.Lock()
	b.calls = append(b.calls, route)
	b.bodies[route] = body
	b.authHdr = append(b.authHdr, r.Header.Get("Authorization"))
	fn := b.routes[route]
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fn == nil {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Not found"}`)
		return
	}
	status, out := fn(body)
	w.WriteHeader(status)
	_, _ = io.WriteString(w, out)
}

func (b *fakeBackend) count(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == route {
			n++
		}
	}
	return n
}

func (b *fakeBackend) snapshot() (calls, auth []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...), append([]string(nil), b.authHdr...)
}

func (b *fakeBackend) rawBody(route string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.bodies[route])
}

func (b *fakeBackend) body(route string) map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out map[string]any
	_ = json.Unmarshal(b.bodies[route], &out)
	return out
}

func newTestRouter(t *testing.T, b *fakeBackend) (*gin.Engine, *observability.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	log := logger.Nop()
	metrics := observability.NewMetrics()
	client, err := api.New(api.Options{BaseURL: srv.URL, Token: "static", Timeout: 2 * time.Second, Logger: log, Observer: metrics})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	cache := querycache.New(querycache.NewMemoryStore(), querycache.Options{Logger: log, Observer: metrics})
	v := forms.NewValidator()

	lessons := services.NewLessonService(log, cache, client, client.Lessons())
	videos := services.NewVideoService(log, cache, client.Videos(), client.VideoQuizzes())
	quizzes := services.NewQuizService(log, cache, client.Quizzes(), client.Questions(), client.Options())
	files := services.NewFileService(log, cache, client.Assignments(), client.Materials())
	support := services.NewSupportService(log, cache, client.SupportBlocks(), client.SupportAgents(), client)

	r := NewRouter(RouterConfig{
		Log:            log,
		AllowedOrigins: []string{"http://localhost:5173"},
		Metrics:        metrics,
		LessonHandler:  httpH.NewLessonHandler(log, lessons, v),
		VideoHandler:   httpH.NewVideoHandler(videos, v),
		QuizHandler:    httpH.NewQuizHandler(log, quizzes, v, editor.QuizEditorOptions{AtomicCorrectToggle: true}),
		FileHandler:    httpH.NewFileHandler(files, v),
		SupportHandler: httpH.NewSupportHandler(log, support, v),
		CacheHandler:   httpH.NewCacheHandler(cache),
		HealthHandler:  httpH.NewHealthHandler(nil),
	})
	return r, metrics
}

func do(t *testing.T, r http.Handler, method, path, body string, hdr ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestListLessonsCarriesPagination(t *testing.T) {
	b := newFakeBackend()
	b.on("GET /lessons", http.StatusOK, `{"data":[{"id":1,"title":"A"}],"currentPage":1,"perPage":1,"lastPage":3}`)
	r, _ := newTestRouter(t, b)

	rec, out := do(t, r, http.MethodGet, "/api/lessons?page=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	pg, _ := out["pagination"].(map[string]any)
	if pg["prevDisabled"] != true || pg["nextDisabled"] != false || pg["nextPage"] != float64(2) {
		t.Fatalf("pagination=%v", pg)
	}
	if items, _ := out["data"].([]any); len(items) != 1 {
		t.Fatalf("data=%v", out["data"])
	}
}

func TestUpdateLessonSendsOnePatchAndRedirects(t *testing.T) {
	b := newFakeBackend()
	b.on("PATCH /lessons/5", http.StatusOK, `{"data":{"id":5,"title":"X","isActive":true}}`)
	r, _ := newTestRouter(t, b)

	rec, out := do(t, r, http.MethodPut, "/api/lessons/5", `{"title":"X","isActive":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if out["redirect"] != "/lessons" || out["ok"] != true {
		t.Fatalf("out=%v", out)
	}
	if n := b.count("PATCH /lessons/5"); n != 1 {
		t.Fatalf("patch calls=%d want 1", n)
	}
	sent := b.body("PATCH /lessons/5")
	if sent["title"] != "X" || sent["isActive"] != true {
		t.Fatalf("sent=%v", sent)
	}
}

func TestUpdateLessonServerValidationError(t *testing.T) {
	b := newFakeBackend()
	b.on("PATCH /lessons/5", http.StatusUnprocessableEntity, `{"message":"The given data was invalid.","errors":{"title":["required"]}}`)
	r, _ := newTestRouter(t, b)

	rec, out := do(t, r, http.MethodPut, "/api/lessons/5", `{"title":"X","isActive":true}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	fe, _ := out["fieldErrors"].(map[string]any)
	if msgs, _ := fe["title"].([]any); len(msgs) != 1 || msgs[0] != "required" {
		t.Fatalf("fieldErrors=%v", out["fieldErrors"])
	}
	if _, ok := out["redirect"]; ok {
		t.Fatalf("unexpected redirect: %v", out)
	}
}

func TestUpdateLessonLocalValidationSkipsBackend(t *testing.T) {
	b := newFakeBackend()
	r, _ := newTestRouter(t, b)

	rec, out := do(t, r, http.MethodPut, "/api/lessons/5", `{"title":"  "}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d", rec.Code)
	}
	if fe, _ := out["fieldErrors"].(map[string]any); fe["title"] == nil {
		t.Fatalf("fieldErrors=%v", out["fieldErrors"])
	}
	if calls, _ := b.snapshot(); len(calls) != 0 {
		t.Fatalf("backend called: %v", calls)
	}
}

func TestBackendErrorsMapToEnvelope(t *testing.T) {
	b := newFakeBackend()
	b.on("GET /lessons/8", http.StatusOK, `{"data":null}`)
	b.on("GET /lesson-videos/3", http.StatusInternalServerError, `{"message":"boom"}`)
	r, _ := newTestRouter(t, b)

	rec, out := do(t, r, http.MethodGet, "/api/lessons/9", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing lesson status=%d", rec.Code)
	}
	if e, _ := out["error"].(map[string]any); e["message"] != "Not found" {
		t.Fatalf("error=%v", out["error"])
	}

	rec, out = do(t, r, http.MethodGet, "/api/lessons/8", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("no data status=%d", rec.Code)
	}
	if e, _ := out["error"].(map[string]any); e["message"] != api.ErrNoData.Error() || e["code"] != "no_data" {
		t.Fatalf("error=%v", out["error"])
	}

	rec, _ = do(t, r, http.MethodGet, "/api/videos/3", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("backend 500 status=%d", rec.Code)
	}
}

func TestAuthorizationIsForwarded(t *testing.T) {
	b := newFakeBackend()
	b.on("GET /levels", http.StatusOK, `{"data":[{"id":1,"name":"A1"}]}`)
	r, _ := newTestRouter(t, b)

	rec, _ := do(t, r, http.MethodGet, "/api/levels", "", "Authorization", "Bearer user-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if _, auth := b.snapshot(); len(auth) != 1 || auth[0] != "Bearer user-token" {
		t.Fatalf("auth=%v", auth)
	}
}

func TestCacheInvalidateForcesRefetch(t *testing.T) {
	b := newFakeBackend()
	b.on("GET /lessons", http.StatusOK, `{"data":[],"currentPage":1,"lastPage":1}`)
	r, _ := newTestRouter(t, b)

	do(t, r, http.MethodGet, "/api/lessons", "")
	do(t, r, http.MethodGet, "/api/lessons", "")
	if n := b.count("GET /lessons"); n != 1 {
		t.Fatalf("calls=%d want 1 while fresh", n)
	}

	rec, _ := do(t, r, http.MethodDelete, "/api/cache", `{"key":["lessons"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("invalidate status=%d body=%s", rec.Code, rec.Body.String())
	}
	do(t, r, http.MethodGet, "/api/lessons", "")
	if n := b.count("GET /lessons"); n != 2 {
		t.Fatalf("calls=%d want 2 after invalidate", n)
	}
}

func TestCacheInvalidateAcceptsNumericID(t *testing.T) {
	b := newFakeBackend()
	b.on("GET /lesson-videos/3", http.StatusOK, `{"data":{"id":3,"lessonId":5,"title":"Intro","provider":"youtube"}}`)
	r, _ := newTestRouter(t, b)

	do(t, r, http.MethodGet, "/api/videos/3", "")
	do(t, r, http.MethodGet, "/api/videos/3", "")
	if n := b.count("GET /lesson-videos/3"); n != 1 {
		t.Fatalf("calls=%d want 1 while fresh", n)
	}

	rec, _ := do(t, r, http.MethodDelete, "/api/cache", `{"key":["lessonVideos","detail",3]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("invalidate status=%d body=%s", rec.Code, rec.Body.String())
	}
	do(t, r, http.MethodGet, "/api/videos/3", "")
	if n := b.count("GET /lesson-videos/3"); n != 2 {
		t.Fatalf("calls=%d want 2 after invalidating by numeric id", n)
	}
}

func TestUnassignAgentClearsBlockAndLead(t *testing.T) {
	b := newFakeBackend()
	b.on("PATCH /support-agents/3", http.StatusOK, `{"data":{"id":3,"status":"busy"}}`)
	r, _ := newTestRouter(t, b)

	rec, out := do(t, r, http.MethodPatch, "/api/support-agents/3", `{"blockId":null}`)
	if rec.Code != http.StatusOK || out["ok"] != true {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	sent := b.body("PATCH /support-agents/3")
	for _, k := range []string{"blockId", "leadId"} {
		v, ok := sent[k]
		if !ok || v != nil {
			t.Fatalf("%s=%v present=%v in %v", k, v, ok, sent)
		}
	}
}

func TestSetCorrectFallsBackWhenMarkCorrectMissing(t *testing.T) {
	b := newFakeBackend()
	b.on("GET /lesson-quizzes/1", http.StatusOK, `{"data":{"id":1,"lessonId":5,"title":"Q"}}`)
	b.on("GET /lesson-quiz-questions", http.StatusOK, `{"data":[{"id":10,"quizId":1,"question":"?","type":"single"}]}`)
	b.on("GET /lesson-quiz-options", http.StatusOK, `{"data":[{"id":100,"questionId":10,"optionText":"a","isCorrect":true},{"id":101,"questionId":10,"optionText":"b"}]}`)
	b.on("PATCH /lesson-quiz-options/100", http.StatusOK, `{"data":{"id":100,"questionId":10,"optionText":"a","isCorrect":false}}`)
	b.on("PATCH /lesson-quiz-options/101", http.StatusOK, `{"data":{"id":101,"questionId":10,"optionText":"b","isCorrect":true}}`)
	r, _ := newTestRouter(t, b)

	rec, _ := do(t, r, http.MethodPost, "/api/options/101/correct?quizId=1&questionId=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	calls, _ := b.snapshot()
	var writes []string
	for _, c := range calls {
		if !strings.HasPrefix(c, "GET ") {
			writes = append(writes, c)
		}
	}
	want := []string{
		"POST /lesson-quiz-options/101/mark-correct",
		"PATCH /lesson-quiz-options/100",
		"PATCH /lesson-quiz-options/101",
	}
	if len(writes) != len(want) {
		t.Fatalf("writes=%v want %v", writes, want)
	}
	for i := range want {
		if writes[i] != want[i] {
			t.Fatalf("writes=%v want %v", writes, want)
		}
	}
}

func TestMoveQuestionStaysLocal(t *testing.T) {
	b := newFakeBackend()
	b.on("GET /lesson-quizzes/1", http.StatusOK, `{"data":{"id":1,"lessonId":5,"title":"Q"}}`)
	b.on("GET /lesson-quiz-questions", http.StatusOK, `{"data":[{"id":10,"quizId":1,"question":"a","type":"single","order":1},{"id":11,"quizId":1,"question":"b","type":"single","order":2}]}`)
	r, _ := newTestRouter(t, b)

	rec, body := do(t, r, http.MethodPost, "/api/quizzes/1/questions/order", `{"questionId":"11","to":0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if body["persisted"] != false {
		t.Fatalf("persisted=%v", body["persisted"])
	}
	data, _ := body["data"].([]any)
	if len(data) != 2 {
		t.Fatalf("data=%v", body["data"])
	}
	first, _ := data[0].(map[string]any)
	if first["id"] != float64(11) || first["order"] != float64(1) {
		t.Fatalf("first position=%v", first)
	}

	calls, _ := b.snapshot()
	for _, c := range calls {
		if !strings.HasPrefix(c, "GET ") {
			t.Fatalf("move reached the backend: %v", calls)
		}
	}

	rec, _ = do(t, r, http.MethodPost, "/api/quizzes/1/questions/order", `{"questionId":"11","to":7}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("out of range status=%d", rec.Code)
	}
}

func TestCreateMaterialMultipart(t *testing.T) {
	b := newFakeBackend()
	b.on("POST /lesson-materials", http.StatusCreated, `{"data":{"id":9,"lessonId":5,"title":"Slides","type":"file"}}`)
	r, _ := newTestRouter(t, b)

	var buf bytes.Buffer
	buf.WriteString("--B\r\nContent-Disposition: form-data; name=\"title\"\r\n\r\nSlides\r\n")
	buf.WriteString("--B\r\nContent-Disposition: form-data; name=\"type\"\r\n\r\nfile\r\n")
	buf.WriteString("--B\r\nContent-Disposition: form-data; name=\"file\"; filename=\"s.pdf\"\r\nContent-Type: application/pdf\r\n\r\n%PDF\r\n")
	buf.WriteString("--B--\r\n")
	req := httptest.NewRequest(http.MethodPost, "/api/lessons/5/materials", &buf)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=B")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	sent := b.rawBody("POST /lesson-materials")
	for _, want := range []string{`name="lessonId"`, "Slides", `filename="s.pdf"`, "%PDF"} {
		if !strings.Contains(sent, want) {
			t.Fatalf("backend body missing %q", want)
		}
	}
}

func TestHealthAndMetrics(t *testing.T) {
	b := newFakeBackend()
	b.on("GET /levels", http.StatusOK, `{"data":[]}`)
	r, _ := newTestRouter(t, b)

	if rec, _ := do(t, r, http.MethodGet, "/healthcheck", ""); rec.Code != http.StatusOK {
		t.Fatalf("health status=%d", rec.Code)
	}
	do(t, r, http.MethodGet, "/api/levels", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	out := rec.Body.String()
	for _, want := range []string{
		`admin_backend_requests_total{method="GET",path="/levels",status="200"} 1`,
		`admin_query_cache_lookups_total{result="miss"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics missing %q", want)
		}
	}
}
