package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/domain"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/querycache"
	"github.com/yungbote/lesson-admin/internal/services"
)

// quizBackend is an in-memory stand-in for the quiz endpoints. It records
// every request as "METHOD path" plus a short body summary.
type quizBackend struct {
	mu               sync.Mutex
	markCorrect      bool
	failCreate       bool
	quiz             domain.LessonQuiz
	questions        []domain.LessonQuizQuestion
	options          map[domain.ID]domain.LessonQuizOption
	nextID           int
	calls            []string
	optionListCounts map[string]int
}

func newQuizBackend() *quizBackend {
	b := &quizBackend{
		quiz: domain.LessonQuiz{ID: "1", LessonID: "5", Title: "Unit quiz", PassingScore: 60},
		questions: []domain.LessonQuizQuestion{
			{ID: "10", QuizID: "1", Question: "Pick one", Type: domain.QuestionSingle, Order: 1},
			{ID: "11", QuizID: "1", Question: "Pick many", Type: domain.QuestionMultiple, Order: 2},
		},
		options:          map[domain.ID]domain.LessonQuizOption{},
		nextID:           500,
		optionListCounts: map[string]int{},
	}
	for _, o := range []domain.LessonQuizOption{
		{ID: "100", QuestionID: "10", OptionText: "a", IsCorrect: true, Order: 1},
		{ID: "101", QuestionID: "10", OptionText: "b", Order: 2},
		{ID: "102", QuestionID: "10", OptionText: "c", Order: 3},
		{ID: "110", QuestionID: "11", OptionText: "x", IsCorrect: true, Order: 1},
		{ID: "111", QuestionID: "11", OptionText: "y", Order: 2},
	} {
		b.options[o.ID] = o
	}
	return b
}

func (b *quizBackend) listCount(questionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.optionListCounts[questionID]
}

func (b *quizBackend) record(s string) { b.calls = append(b.calls, s) }

func (b *quizBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *quizBackend) optionsOf(questionID domain.ID) []domain.LessonQuizOption {
	var out []domain.LessonQuizOption
	for _, o := range b.options {
		if o.QuestionID == questionID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func writeData(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": v})
}

func (b *quizBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	body, _ := io.ReadAll(r.Body)
	path := r.URL.Path

	switch {
	case r.Method == http.MethodGet && path == "/lesson-quizzes/1":
		b.record("GET quiz")
		writeData(w, 200, b.quiz)
	case r.Method == http.MethodPatch && path == "/lesson-quizzes/1":
		b.record("PATCH quiz " + string(body))
		_ = json.Unmarshal(body, &b.quiz)
		writeData(w, 200, b.quiz)
	case r.Method == http.MethodGet && path == "/lesson-quiz-questions":
		b.record("GET questions")
		writeData(w, 200, b.questions)
	case r.Method == http.MethodPost && path == "/lesson-quiz-questions":
		var q domain.LessonQuizQuestion
		_ = json.Unmarshal(body, &q)
		q.ID = domain.ID(fmt.Sprint(b.nextID))
		b.nextID++
		b.questions = append(b.questions, q)
		b.record("POST question")
		writeData(w, 201, q)
	case r.Method == http.MethodGet && path == "/lesson-quiz-options":
		qid := r.URL.Query().Get("questionId")
		b.optionListCounts[qid]++
		b.record("GET options " + qid)
		writeData(w, 200, b.optionsOf(domain.ID(qid)))
	case r.Method == http.MethodPost && path == "/lesson-quiz-options":
		if b.failCreate {
			b.record("POST option (fail)")
			w.WriteHeader(422)
			_, _ = io.WriteString(w, `{"message":"invalid","errors":{"optionText":["taken"]}}`)
			return
		}
		var o domain.LessonQuizOption
		_ = json.Unmarshal(body, &o)
		o.ID = domain.ID(fmt.Sprint(b.nextID))
		b.nextID++
		b.options[o.ID] = o
		b.record("POST option")
		writeData(w, 201, o)
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/mark-correct"):
		id := domain.ID(strings.TrimSuffix(strings.TrimPrefix(path, "/lesson-quiz-options/"), "/mark-correct"))
		if !b.markCorrect {
			b.record("POST mark-correct (404) " + id.String())
			w.WriteHeader(404)
			_, _ = io.WriteString(w, `{"message":"Not Found"}`)
			return
		}
		target := b.options[id]
		for k, o := range b.options {
			if o.QuestionID == target.QuestionID {
				o.IsCorrect = k == id
				b.options[k] = o
			}
		}
		b.record("POST mark-correct " + id.String())
		writeData(w, 200, b.optionsOf(target.QuestionID))
	case r.Method == http.MethodPatch && strings.HasPrefix(path, "/lesson-quiz-options/"):
		id := domain.ID(strings.TrimPrefix(path, "/lesson-quiz-options/"))
		o := b.options[id]
		var patch struct {
			OptionText *string `json:"optionText"`
			IsCorrect  *bool   `json:"isCorrect"`
		}
		_ = json.Unmarshal(body, &patch)
		if patch.OptionText != nil {
			o.OptionText = *patch.OptionText
		}
		if patch.IsCorrect != nil {
			o.IsCorrect = *patch.IsCorrect
			b.record(fmt.Sprintf("PATCH option %s isCorrect=%v", id, o.IsCorrect))
		} else {
			b.record("PATCH option " + id.String())
		}
		b.options[id] = o
		writeData(w, 200, o)
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/lesson-quiz-options/"):
		id := domain.ID(strings.TrimPrefix(path, "/lesson-quiz-options/"))
		delete(b.options, id)
		b.record("DELETE option " + id.String())
		w.WriteHeader(204)
	default:
		b.record("UNEXPECTED " + r.Method + " " + path)
		w.WriteHeader(404)
	}
}

// newQuizService wires the real client, cache and service against b.
func newQuizService(t *testing.T, b *quizBackend) services.QuizService {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	c, err := api.New(api.Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	cache := querycache.New(querycache.NewMemoryStore(), querycache.Options{})
	return services.NewQuizService(logger.Nop(), cache, c.Quizzes(), c.Questions(), c.Options())
}

// observingQuizService runs beforeCreate on the caller's goroutine just
// before an option create goes out.
type observingQuizService struct {
	services.QuizService
	beforeCreate func()
}

func (s observingQuizService) CreateOption(ctx context.Context, req api.CreateOptionRequest) (domain.LessonQuizOption, error) {
	if s.beforeCreate != nil {
		s.beforeCreate()
	}
	return s.QuizService.CreateOption(ctx, req)
}
