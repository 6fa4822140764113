package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/domain"
	"github.com/yungbote/lesson-admin/internal/domain/ident"
	"github.com/yungbote/lesson-admin/internal/editor"
	"github.com/yungbote/lesson-admin/internal/forms"
	"github.com/yungbote/lesson-admin/internal/http/response"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/services"
)

type QuizHandler struct {
	log      *logger.Logger
	quizzes  services.QuizService
	validate *forms.Validator
	opts     editor.QuizEditorOptions
}

func NewQuizHandler(log *logger.Logger, quizzes services.QuizService, v *forms.Validator, opts editor.QuizEditorOptions) *QuizHandler {
	return &QuizHandler{log: log.With("handler", "QuizHandler"), quizzes: quizzes, validate: v, opts: opts}
}

// editorFor loads the quiz editor, writing the error response on failure.
func (h *QuizHandler) editorFor(c *gin.Context, quizID domain.ID) (*editor.QuizEditor, bool) {
	ed := editor.NewQuizEditor(h.log, h.quizzes, h.validate, quizID, h.opts)
	if err := ed.Load(c.Request.Context()); err != nil {
		response.RespondErr(c, err)
		return nil, false
	}
	return ed, true
}

func questionState(ed *editor.QuizEditor, questionID domain.ID) *editor.QuestionState {
	for _, qs := range ed.Questions() {
		if qs.Question.ID == questionID {
			return &qs
		}
	}
	return nil
}

// GET /api/lessons/:id/quizzes
func (h *QuizHandler) ListLessonQuizzes(c *gin.Context) {
	lessonID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, err := h.quizzes.ListQuizzes(c.Request.Context(), lessonID, listParams(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondPage(c, page)
}

// POST /api/lessons/:id/quizzes
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	lessonID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in editor.QuizSettingsForm
	if !bindJSON(c, &in) || !validate(c, h.validate, in) {
		return
	}
	q, err := h.quizzes.CreateQuiz(c.Request.Context(), api.CreateQuizRequest{
		LessonID:         lessonID,
		Title:            in.Title,
		TimeLimit:        in.TimeLimit,
		PassingScore:     in.PassingScore,
		MaxAttempts:      in.MaxAttempts,
		ShuffleQuestions: in.ShuffleQuestions,
		ShowAnswers:      in.ShowAnswers,
		IsActive:         in.IsActive,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"data": q})
}

// GET /api/quizzes/:id?expand=12,13 returns the quiz editor view. Questions
// listed in expand come with their options.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ed, ok := h.editorFor(c, quizID)
	if !ok {
		return
	}
	for _, raw := range strings.Split(c.Query("expand"), ",") {
		id, err := ident.Parse(raw)
		if err != nil {
			continue
		}
		if err := ed.Expand(c.Request.Context(), id); err != nil {
			response.RespondErr(c, err)
			return
		}
	}
	response.RespondOK(c, gin.H{
		"data":      ed.Quiz,
		"settings":  ed.Settings,
		"questions": ed.Questions(),
	})
}

// PATCH /api/quizzes/:id
func (h *QuizHandler) SaveSettings(c *gin.Context) {
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form editor.QuizSettingsForm
	if !bindJSON(c, &form) {
		return
	}
	ed, ok := h.editorFor(c, quizID)
	if !ok {
		return
	}
	out := ed.SaveSettings(c.Request.Context(), form)
	response.RespondOutcome(c, out, ed.Quiz)
}

// DELETE /api/quizzes/:id
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	q, err := h.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if err := h.quizzes.DeleteQuiz(ctx, q.LessonID, quizID); err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/quizzes/:id/questions
func (h *QuizHandler) ListQuestions(c *gin.Context) {
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}
	qs, err := h.quizzes.ListQuestions(c.Request.Context(), quizID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"data": qs})
}

// POST /api/quizzes/:id/questions
func (h *QuizHandler) AddQuestion(c *gin.Context) {
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form editor.QuestionForm
	if !bindJSON(c, &form) {
		return
	}
	ed, ok := h.editorFor(c, quizID)
	if !ok {
		return
	}
	out := ed.AddQuestion(c.Request.Context(), form)
	response.RespondOutcome(c, out, ed.Questions())
}

type moveQuestionInput struct {
	QuestionID string `json:"questionId" validate:"required"`
	To         *int   `json:"to" validate:"required,min=0"`
}

// POST /api/quizzes/:id/questions/order
// Returns the new local order. It is not saved to the backend.
func (h *QuizHandler) MoveQuestion(c *gin.Context) {
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in moveQuestionInput
	if !bindJSON(c, &in) || !validate(c, h.validate, in) {
		return
	}
	questionID, err := ident.Parse(in.QuestionID)
	if err != nil {
		respondInvalid(c, "questionId", err.Error())
		return
	}
	ed, ok := h.editorFor(c, quizID)
	if !ok {
		return
	}
	positions, err := ed.MoveQuestion(questionID, *in.To)
	switch {
	case errors.Is(err, editor.ErrQuestionNotFound):
		response.RespondError(c, http.StatusNotFound, "question_not_found", err)
		return
	case errors.Is(err, editor.ErrInvalidMove):
		respondInvalid(c, "to", "is out of range")
		return
	case err != nil:
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"data":      positions,
		"questions": ed.Questions(),
		"persisted": false,
	})
}

// PATCH /api/questions/:id?quizId=
func (h *QuizHandler) UpdateQuestion(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	quizID, ok := queryID(c, "quizId")
	if !ok {
		return
	}
	var form editor.QuestionForm
	if !bindJSON(c, &form) {
		return
	}
	ed, ok := h.editorFor(c, quizID)
	if !ok {
		return
	}
	out := ed.UpdateQuestion(c.Request.Context(), questionID, form)
	response.RespondOutcome(c, out, questionState(ed, questionID))
}

// DELETE /api/questions/:id?quizId=
func (h *QuizHandler) DeleteQuestion(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	quizID, ok := queryID(c, "quizId")
	if !ok {
		return
	}
	ed, ok := h.editorFor(c, quizID)
	if !ok {
		return
	}
	out := ed.DeleteQuestion(c.Request.Context(), questionID)
	response.RespondOutcome(c, out, nil)
}

// GET /api/questions/:id/options
func (h *QuizHandler) ListOptions(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	opts, err := h.quizzes.ListOptions(c.Request.Context(), questionID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"data": opts})
}

// POST /api/questions/:id/options?quizId=
func (h *QuizHandler) AddOption(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	quizID, ok := queryID(c, "quizId")
	if !ok {
		return
	}
	var form editor.OptionForm
	if !bindJSON(c, &form) {
		return
	}
	ed, ok := h.editorFor(c, quizID)
	if !ok {
		return
	}
	out := ed.AddOption(c.Request.Context(), questionID, form)
	response.RespondOutcome(c, out, questionState(ed, questionID))
}

// optionTarget reads the quizId and questionId query params of option routes.
func (h *QuizHandler) optionTarget(c *gin.Context) (ed *editor.QuizEditor, questionID, optionID domain.ID, ok bool) {
	if optionID, ok = pathID(c, "id"); !ok {
		return
	}
	var quizID domain.ID
	if quizID, ok = queryID(c, "quizId"); !ok {
		return
	}
	if questionID, ok = queryID(c, "questionId"); !ok {
		return
	}
	ed, ok = h.editorFor(c, quizID)
	return
}

// PATCH /api/options/:id?quizId=&questionId=
func (h *QuizHandler) UpdateOption(c *gin.Context) {
	var form editor.OptionForm
	if !bindJSON(c, &form) {
		return
	}
	ed, questionID, optionID, ok := h.optionTarget(c)
	if !ok {
		return
	}
	out := ed.UpdateOption(c.Request.Context(), questionID, optionID, form)
	response.RespondOutcome(c, out, questionState(ed, questionID))
}

// DELETE /api/options/:id?quizId=&questionId=
func (h *QuizHandler) DeleteOption(c *gin.Context) {
	ed, questionID, optionID, ok := h.optionTarget(c)
	if !ok {
		return
	}
	out := ed.DeleteOption(c.Request.Context(), questionID, optionID)
	response.RespondOutcome(c, out, questionState(ed, questionID))
}

// POST /api/options/:id/correct?quizId=&questionId=
func (h *QuizHandler) SetCorrect(c *gin.Context) {
	ed, questionID, optionID, ok := h.optionTarget(c)
	if !ok {
		return
	}
	out := ed.SetCorrect(c.Request.Context(), questionID, optionID)
	response.RespondOutcome(c, out, questionState(ed, questionID))
}
