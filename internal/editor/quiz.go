package editor

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/domain"
	"github.com/yungbote/lesson-admin/internal/forms"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/reorder"
	"github.com/yungbote/lesson-admin/internal/services"
)

type QuizSettingsForm struct {
	Title            string `json:"title" validate:"notblank,max=255"`
	TimeLimit        int    `json:"timeLimit" validate:"min=0"`
	PassingScore     int    `json:"passingScore" validate:"min=0,max=100"`
	MaxAttempts      int    `json:"maxAttempts" validate:"min=0"`
	ShuffleQuestions bool   `json:"shuffleQuestions"`
	ShowAnswers      bool   `json:"showAnswers"`
	IsActive         bool   `json:"isActive"`
}

type QuestionForm struct {
	Question string              `json:"question" validate:"notblank"`
	Type     domain.QuestionType `json:"type" validate:"oneof=single multiple true_false"`
	Points   int                 `json:"points" validate:"min=0"`
}

type OptionForm struct {
	OptionText string `json:"optionText" validate:"notblank"`
}

// QuestionState is one question row plus its lazily loaded options.
type QuestionState struct {
	Question      domain.LessonQuizQuestion `json:"question"`
	Expanded      bool                      `json:"expanded"`
	OptionsLoaded bool                      `json:"optionsLoaded"`
	Options       []domain.LessonQuizOption `json:"options,omitempty"`
}

type QuizEditorOptions struct {
	// AtomicCorrectToggle uses the backend's mark-correct call for
	// single-answer questions, falling back to clear-then-set when the
	// endpoint is missing.
	AtomicCorrectToggle bool
	OnSaved             func(SaveEvent)
}

// QuizEditor edits a quiz with its questions and options. It is owned by one
// caller at a time.
type QuizEditor struct {
	log      *logger.Logger
	quizzes  services.QuizService
	validate *forms.Validator
	opts     QuizEditorOptions

	quizID    domain.ID
	loaded    bool
	Quiz      domain.LessonQuiz
	Settings  QuizSettingsForm
	questions []*QuestionState
}

func NewQuizEditor(log *logger.Logger, quizzes services.QuizService, v *forms.Validator, quizID domain.ID, opts QuizEditorOptions) *QuizEditor {
	return &QuizEditor{
		log:      log.With("service", "QuizEditor", "quizId", quizID.String()),
		quizzes:  quizzes,
		validate: v,
		opts:     opts,
		quizID:   quizID,
	}
}

// Load fetches the quiz and its questions concurrently.
func (e *QuizEditor) Load(ctx context.Context) error {
	var (
		quiz      domain.LessonQuiz
		questions []domain.LessonQuizQuestion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := e.quizzes.GetQuiz(gctx, e.quizID)
		if err != nil {
			return fmt.Errorf("load quiz: %w", err)
		}
		quiz = q
		return nil
	})
	g.Go(func() error {
		qs, err := e.quizzes.ListQuestions(gctx, e.quizID)
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}
		questions = qs
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	e.Quiz = quiz
	e.Settings = QuizSettingsForm{
		Title:            quiz.Title,
		TimeLimit:        quiz.TimeLimit,
		PassingScore:     quiz.PassingScore,
		MaxAttempts:      quiz.MaxAttempts,
		ShuffleQuestions: quiz.ShuffleQuestions,
		ShowAnswers:      quiz.ShowAnswers,
		IsActive:         quiz.IsActive,
	}
	prev := map[domain.ID]*QuestionState{}
	for _, qs := range e.questions {
		prev[qs.Question.ID] = qs
	}
	e.questions = e.questions[:0]
	for _, q := range questions {
		st := &QuestionState{Question: q}
		if old, ok := prev[q.ID]; ok {
			st.Expanded = old.Expanded
			st.OptionsLoaded = old.OptionsLoaded
			st.Options = old.Options
		}
		e.questions = append(e.questions, st)
	}
	e.loaded = true
	return nil
}

// Questions returns a copy of the question rows in display order.
func (e *QuizEditor) Questions() []QuestionState {
	out := make([]QuestionState, len(e.questions))
	for i, q := range e.questions {
		out[i] = *q
		out[i].Options = append([]domain.LessonQuizOption(nil), q.Options...)
	}
	return out
}

func (e *QuizEditor) SaveSettings(ctx context.Context, form QuizSettingsForm) Outcome {
	if fe := e.validate.Struct(form); fe != nil {
		return invalid(fe)
	}
	q, err := e.quizzes.UpdateQuiz(ctx, e.Quiz.LessonID, e.quizID, api.UpdateQuizRequest{
		Title:            &form.Title,
		TimeLimit:        &form.TimeLimit,
		PassingScore:     &form.PassingScore,
		MaxAttempts:      &form.MaxAttempts,
		ShuffleQuestions: &form.ShuffleQuestions,
		ShowAnswers:      &form.ShowAnswers,
		IsActive:         &form.IsActive,
	})
	if err != nil {
		return failure(e.log, "save quiz settings", err)
	}
	e.Quiz = q
	e.Settings = form
	e.saved("quiz", "update", e.quizID)
	return success("Quiz settings saved")
}

func (e *QuizEditor) AddQuestion(ctx context.Context, form QuestionForm) Outcome {
	if fe := e.validate.Struct(form); fe != nil {
		return invalid(fe)
	}
	q, err := e.quizzes.CreateQuestion(ctx, api.CreateQuestionRequest{
		QuizID:   e.quizID,
		Question: form.Question,
		Type:     form.Type,
		Points:   form.Points,
		Order:    len(e.questions) + 1,
	})
	if err != nil {
		return failure(e.log, "add question", err)
	}
	// A new question has no options yet, so there is nothing to fetch.
	e.questions = append(e.questions, &QuestionState{Question: q, OptionsLoaded: true, Options: []domain.LessonQuizOption{}})
	e.saved("question", "create", q.ID)
	return success("Question added")
}

func (e *QuizEditor) UpdateQuestion(ctx context.Context, questionID domain.ID, form QuestionForm) Outcome {
	qs, err := e.question(questionID)
	if err != nil {
		return failure(e.log, "update question", err)
	}
	if fe := e.validate.Struct(form); fe != nil {
		return invalid(fe)
	}
	q, err := e.quizzes.UpdateQuestion(ctx, e.quizID, questionID, api.UpdateQuestionRequest{
		Question: &form.Question,
		Type:     &form.Type,
		Points:   &form.Points,
	})
	if err != nil {
		return failure(e.log, "update question", err)
	}
	qs.Question = q
	e.saved("question", "update", questionID)
	return success("Question updated")
}

func (e *QuizEditor) DeleteQuestion(ctx context.Context, questionID domain.ID) Outcome {
	if _, err := e.question(questionID); err != nil {
		return failure(e.log, "delete question", err)
	}
	if err := e.quizzes.DeleteQuestion(ctx, e.quizID, questionID); err != nil {
		return failure(e.log, "delete question", err)
	}
	for i, qs := range e.questions {
		if qs.Question.ID == questionID {
			e.questions = append(e.questions[:i], e.questions[i+1:]...)
			break
		}
	}
	e.saved("question", "delete", questionID)
	return success("Question deleted")
}

// MoveQuestion moves a question to index to in the editor's list and returns
// the resulting 1-based positions. The new order stays local; nothing is sent
// to the backend.
func (e *QuizEditor) MoveQuestion(questionID domain.ID, to int) ([]reorder.Position, error) {
	if _, err := e.question(questionID); err != nil {
		return nil, err
	}
	ids := make([]domain.ID, len(e.questions))
	byID := make(map[domain.ID]*QuestionState, len(e.questions))
	for i, qs := range e.questions {
		ids[i] = qs.Question.ID
		byID[qs.Question.ID] = qs
	}
	list := reorder.New(ids)
	if err := list.MoveID(questionID, to); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	for i, id := range list.IDs() {
		e.questions[i] = byID[id]
	}
	return list.Order(), nil
}

// Expand opens a question and loads its options through the query cache, so
// re-expanding while the cached list is fresh does not refetch.
func (e *QuizEditor) Expand(ctx context.Context, questionID domain.ID) error {
	qs, err := e.question(questionID)
	if err != nil {
		return err
	}
	qs.Expanded = true
	return e.loadOptions(ctx, qs)
}

func (e *QuizEditor) Collapse(questionID domain.ID) {
	if qs, err := e.question(questionID); err == nil {
		qs.Expanded = false
	}
}

func (e *QuizEditor) loadOptions(ctx context.Context, qs *QuestionState) error {
	opts, err := e.quizzes.ListOptions(ctx, qs.Question.ID)
	if err != nil {
		return fmt.Errorf("load options for question %s: %w", qs.Question.ID, err)
	}
	// Keep rows whose create call has not resolved.
	var pending []domain.LessonQuizOption
	for _, o := range qs.Options {
		if o.ID.IsTemp() {
			pending = append(pending, o)
		}
	}
	qs.Options = append(append([]domain.LessonQuizOption{}, opts...), pending...)
	qs.OptionsLoaded = true
	return nil
}

// AddOption shows a temp row right away and swaps in the server row once the
// create call returns. The temp row is dropped if the call fails.
func (e *QuizEditor) AddOption(ctx context.Context, questionID domain.ID, form OptionForm) Outcome {
	qs, err := e.question(questionID)
	if err != nil {
		return failure(e.log, "add option", err)
	}
	if fe := e.validate.Struct(form); fe != nil {
		return invalid(fe)
	}
	// The order continues after the existing rows, so they must be known.
	if !qs.OptionsLoaded {
		if err := e.loadOptions(ctx, qs); err != nil {
			return failure(e.log, "add option", err)
		}
	}
	temp := domain.LessonQuizOption{
		ID:         domain.NewTempID(),
		QuestionID: questionID,
		OptionText: form.OptionText,
		Order:      nextOptionOrder(qs.Options),
	}
	qs.Options = append(qs.Options, temp)

	created, err := e.quizzes.CreateOption(ctx, api.CreateOptionRequest{
		QuestionID: questionID,
		OptionText: form.OptionText,
		Order:      temp.Order,
	})
	idx := optionIndex(qs.Options, temp.ID)
	if err != nil {
		if idx >= 0 {
			qs.Options = append(qs.Options[:idx], qs.Options[idx+1:]...)
		}
		return failure(e.log, "add option", err)
	}
	if idx >= 0 {
		qs.Options[idx] = created
	} else {
		qs.Options = append(qs.Options, created)
	}
	e.saved("option", "create", created.ID)
	return success("Option added")
}

func (e *QuizEditor) UpdateOption(ctx context.Context, questionID, optionID domain.ID, form OptionForm) Outcome {
	qs, idx, err := e.option(ctx, questionID, optionID)
	if err != nil {
		return failure(e.log, "update option", err)
	}
	if fe := e.validate.Struct(form); fe != nil {
		return invalid(fe)
	}
	o, err := e.quizzes.UpdateOption(ctx, questionID, optionID, api.UpdateOptionRequest{OptionText: &form.OptionText})
	if err != nil {
		return failure(e.log, "update option", err)
	}
	qs.Options[idx] = o
	e.saved("option", "update", optionID)
	return success("Option updated")
}

func (e *QuizEditor) DeleteOption(ctx context.Context, questionID, optionID domain.ID) Outcome {
	qs, idx, err := e.option(ctx, questionID, optionID)
	if err != nil {
		return failure(e.log, "delete option", err)
	}
	if err := e.quizzes.DeleteOption(ctx, questionID, optionID); err != nil {
		return failure(e.log, "delete option", err)
	}
	qs.Options = append(qs.Options[:idx], qs.Options[idx+1:]...)
	e.saved("option", "delete", optionID)
	return success("Option deleted")
}

// SetCorrect marks optionID correct. Multiple-answer questions toggle just
// that option. Single-answer questions end with exactly one correct option:
// atomically when the backend supports it, otherwise by clearing the
// previously correct siblings one at a time before setting the chosen one.
func (e *QuizEditor) SetCorrect(ctx context.Context, questionID, optionID domain.ID) Outcome {
	qs, idx, err := e.option(ctx, questionID, optionID)
	if err != nil {
		return failure(e.log, "set correct option", err)
	}

	if !qs.Question.Type.SingleAnswer() {
		want := !qs.Options[idx].IsCorrect
		o, err := e.quizzes.UpdateOption(ctx, questionID, optionID, api.UpdateOptionRequest{IsCorrect: &want})
		if err != nil {
			return failure(e.log, "toggle correct option", err)
		}
		qs.Options[idx] = o
		e.saved("option", "update", optionID)
		return success("Answer updated")
	}

	if e.opts.AtomicCorrectToggle {
		opts, err := e.quizzes.MarkCorrect(ctx, questionID, optionID)
		switch {
		case err == nil:
			e.applyCorrect(qs, optionID, opts)
			e.saved("option", "mark-correct", optionID)
			return success("Correct answer updated")
		case errors.Is(err, api.ErrMarkCorrectUnsupported):
			e.log.Info("mark-correct unsupported, using sequential update", "questionId", questionID.String())
		default:
			return failure(e.log, "mark correct option", err)
		}
	}

	return e.setCorrectSequential(ctx, qs, optionID)
}

func (e *QuizEditor) setCorrectSequential(ctx context.Context, qs *QuestionState, optionID domain.ID) Outcome {
	off, on := false, true
	for i := range qs.Options {
		o := qs.Options[i]
		if o.ID == optionID || !o.IsCorrect || o.ID.IsTemp() {
			continue
		}
		updated, err := e.quizzes.UpdateOption(ctx, qs.Question.ID, o.ID, api.UpdateOptionRequest{IsCorrect: &off})
		if err != nil {
			return failure(e.log, "clear correct option", err)
		}
		qs.Options[i] = updated
	}
	updated, err := e.quizzes.UpdateOption(ctx, qs.Question.ID, optionID, api.UpdateOptionRequest{IsCorrect: &on})
	if err != nil {
		return failure(e.log, "set correct option", err)
	}
	if idx := optionIndex(qs.Options, optionID); idx >= 0 {
		qs.Options[idx] = updated
	}
	e.saved("option", "mark-correct", optionID)
	return success("Correct answer updated")
}

// applyCorrect uses the server's option list when it sent one and otherwise
// flips the flags locally.
func (e *QuizEditor) applyCorrect(qs *QuestionState, optionID domain.ID, opts []domain.LessonQuizOption) {
	if len(opts) > 0 {
		byID := make(map[domain.ID]domain.LessonQuizOption, len(opts))
		for _, o := range opts {
			byID[o.ID] = o
		}
		for i, o := range qs.Options {
			if srv, ok := byID[o.ID]; ok {
				qs.Options[i] = srv
			}
		}
		return
	}
	for i := range qs.Options {
		qs.Options[i].IsCorrect = qs.Options[i].ID == optionID
	}
}

func (e *QuizEditor) question(id domain.ID) (*QuestionState, error) {
	if !e.loaded {
		return nil, ErrNotLoaded
	}
	for _, qs := range e.questions {
		if qs.Question.ID == id {
			return qs, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
}

func (e *QuizEditor) option(ctx context.Context, questionID, optionID domain.ID) (*QuestionState, int, error) {
	if optionID.IsTemp() {
		return nil, -1, ErrOptionPending
	}
	qs, err := e.question(questionID)
	if err != nil {
		return nil, -1, err
	}
	if !qs.OptionsLoaded {
		if err := e.loadOptions(ctx, qs); err != nil {
			return nil, -1, err
		}
	}
	idx := optionIndex(qs.Options, optionID)
	if idx < 0 {
		return nil, -1, fmt.Errorf("%w: %s", ErrOptionNotFound, optionID)
	}
	return qs, idx, nil
}

func nextOptionOrder(opts []domain.LessonQuizOption) int {
	top := 0
	for _, o := range opts {
		if o.Order > top {
			top = o.Order
		}
	}
	return top + 1
}

func optionIndex(opts []domain.LessonQuizOption, id domain.ID) int {
	for i, o := range opts {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (e *QuizEditor) saved(entity, action string, id domain.ID) {
	if e.opts.OnSaved != nil {
		e.opts.OnSaved(SaveEvent{Entity: entity, Action: action, ID: id.String()})
	}
}
