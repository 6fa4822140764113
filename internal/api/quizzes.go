package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/yungbote/lesson-admin/internal/domain"
)

type CreateQuizRequest struct {
	LessonID         domain.ID `json:"lessonId"`
	Title            string    `json:"title"`
	TimeLimit        int       `json:"timeLimit"`
	PassingScore     int       `json:"passingScore"`
	MaxAttempts      int       `json:"maxAttempts"`
	ShuffleQuestions bool      `json:"shuffleQuestions"`
	ShowAnswers      bool      `json:"showAnswers"`
	IsActive         bool      `json:"isActive"`
}

type UpdateQuizRequest struct {
	Title            *string `json:"title,omitempty"`
	TimeLimit        *int    `json:"timeLimit,omitempty"`
	PassingScore     *int    `json:"passingScore,omitempty"`
	MaxAttempts      *int    `json:"maxAttempts,omitempty"`
	ShuffleQuestions *bool   `json:"shuffleQuestions,omitempty"`
	ShowAnswers      *bool   `json:"showAnswers,omitempty"`
	IsActive         *bool   `json:"isActive,omitempty"`
}

type QuizzesAPI struct {
	r resource[domain.LessonQuiz]
}

func (c *Client) Quizzes() QuizzesAPI {
	return QuizzesAPI{r: resource[domain.LessonQuiz]{c: c, path: "/lesson-quizzes"}}
}

func (a QuizzesAPI) ListByLesson(ctx context.Context, lessonID domain.ID, p ListParams) (Page[domain.LessonQuiz], error) {
	return a.r.list(ctx, p.with("lessonId", lessonID.String()))
}

func (a QuizzesAPI) Get(ctx context.Context, id domain.ID) (domain.LessonQuiz, error) {
	return a.r.get(ctx, id)
}

func (a QuizzesAPI) Create(ctx context.Context, req CreateQuizRequest) (domain.LessonQuiz, error) {
	return a.r.create(ctx, req)
}

func (a QuizzesAPI) Update(ctx context.Context, id domain.ID, req UpdateQuizRequest) (domain.LessonQuiz, error) {
	return a.r.update(ctx, id, req)
}

func (a QuizzesAPI) Delete(ctx context.Context, id domain.ID) error {
	return a.r.delete(ctx, id)
}

type CreateQuestionRequest struct {
	QuizID   domain.ID           `json:"quizId"`
	Question string              `json:"question"`
	Type     domain.QuestionType `json:"type"`
	Points   int                 `json:"points"`
	Order    int                 `json:"order"`
}

type UpdateQuestionRequest struct {
	Question *string              `json:"question,omitempty"`
	Type     *domain.QuestionType `json:"type,omitempty"`
	Points   *int                 `json:"points,omitempty"`
	Order    *int                 `json:"order,omitempty"`
}

type QuestionsAPI struct {
	r resource[domain.LessonQuizQuestion]
}

func (c *Client) Questions() QuestionsAPI {
	return QuestionsAPI{r: resource[domain.LessonQuizQuestion]{c: c, path: "/lesson-quiz-questions"}}
}

func (a QuestionsAPI) ListByQuiz(ctx context.Context, quizID domain.ID) (Page[domain.LessonQuizQuestion], error) {
	return a.r.list(ctx, ListParams{}.with("quizId", quizID.String()))
}

func (a QuestionsAPI) Create(ctx context.Context, req CreateQuestionRequest) (domain.LessonQuizQuestion, error) {
	return a.r.create(ctx, req)
}

func (a QuestionsAPI) Update(ctx context.Context, id domain.ID, req UpdateQuestionRequest) (domain.LessonQuizQuestion, error) {
	return a.r.update(ctx, id, req)
}

func (a QuestionsAPI) Delete(ctx context.Context, id domain.ID) error {
	return a.r.delete(ctx, id)
}

type CreateOptionRequest struct {
	QuestionID domain.ID `json:"questionId"`
	OptionText string    `json:"optionText"`
	IsCorrect  bool      `json:"isCorrect"`
	Order      int       `json:"order"`
}

type UpdateOptionRequest struct {
	OptionText *string `json:"optionText,omitempty"`
	IsCorrect  *bool   `json:"isCorrect,omitempty"`
	Order      *int    `json:"order,omitempty"`
}

type OptionsAPI struct {
	r resource[domain.LessonQuizOption]
}

func (c *Client) Options() OptionsAPI {
	return OptionsAPI{r: resource[domain.LessonQuizOption]{c: c, path: "/lesson-quiz-options"}}
}

func (a OptionsAPI) ListByQuestion(ctx context.Context, questionID domain.ID) (Page[domain.LessonQuizOption], error) {
	return a.r.list(ctx, ListParams{}.with("questionId", questionID.String()))
}

func (a OptionsAPI) Create(ctx context.Context, req CreateOptionRequest) (domain.LessonQuizOption, error) {
	return a.r.create(ctx, req)
}

func (a OptionsAPI) Update(ctx context.Context, id domain.ID, req UpdateOptionRequest) (domain.LessonQuizOption, error) {
	return a.r.update(ctx, id, req)
}

func (a OptionsAPI) Delete(ctx context.Context, id domain.ID) error {
	return a.r.delete(ctx, id)
}

// MarkCorrect sets one option correct and clears its siblings in a single
// server-side transaction. It returns the question's options after the change.
func (a OptionsAPI) MarkCorrect(ctx context.Context, id domain.ID) ([]domain.LessonQuizOption, error) {
	raw, err := a.r.c.do(ctx, http.MethodPost, a.r.itemPath(id)+"/mark-correct", nil, nil)
	if err != nil {
		var herr *HTTPError
		if errors.As(err, &herr) {
			switch herr.StatusCode {
			case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
				return nil, ErrMarkCorrectUnsupported
			}
		}
		return nil, err
	}
	return decodeData[[]domain.LessonQuizOption](raw)
}
