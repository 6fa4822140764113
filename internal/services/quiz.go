package services

import (
	"context"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/domain"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/querycache"
)

type QuizzesBackend = ChildBackend[domain.LessonQuiz, api.CreateQuizRequest, api.UpdateQuizRequest]

type QuestionsBackend interface {
	ListByQuiz(ctx context.Context, quizID domain.ID) (api.Page[domain.LessonQuizQuestion], error)
	Create(ctx context.Context, req api.CreateQuestionRequest) (domain.LessonQuizQuestion, error)
	Update(ctx context.Context, id domain.ID, req api.UpdateQuestionRequest) (domain.LessonQuizQuestion, error)
	Delete(ctx context.Context, id domain.ID) error
}

type OptionsBackend interface {
	ListByQuestion(ctx context.Context, questionID domain.ID) (api.Page[domain.LessonQuizOption], error)
	Create(ctx context.Context, req api.CreateOptionRequest) (domain.LessonQuizOption, error)
	Update(ctx context.Context, id domain.ID, req api.UpdateOptionRequest) (domain.LessonQuizOption, error)
	Delete(ctx context.Context, id domain.ID) error
	MarkCorrect(ctx context.Context, id domain.ID) ([]domain.LessonQuizOption, error)
}

type QuizService interface {
	ListQuizzes(ctx context.Context, lessonID domain.ID, p api.ListParams) (api.Page[domain.LessonQuiz], error)
	GetQuiz(ctx context.Context, id domain.ID) (domain.LessonQuiz, error)
	CreateQuiz(ctx context.Context, req api.CreateQuizRequest) (domain.LessonQuiz, error)
	UpdateQuiz(ctx context.Context, lessonID, id domain.ID, req api.UpdateQuizRequest) (domain.LessonQuiz, error)
	DeleteQuiz(ctx context.Context, lessonID, id domain.ID) error

	ListQuestions(ctx context.Context, quizID domain.ID) ([]domain.LessonQuizQuestion, error)
	CreateQuestion(ctx context.Context, req api.CreateQuestionRequest) (domain.LessonQuizQuestion, error)
	UpdateQuestion(ctx context.Context, quizID, id domain.ID, req api.UpdateQuestionRequest) (domain.LessonQuizQuestion, error)
	DeleteQuestion(ctx context.Context, quizID, id domain.ID) error

	ListOptions(ctx context.Context, questionID domain.ID) ([]domain.LessonQuizOption, error)
	CreateOption(ctx context.Context, req api.CreateOptionRequest) (domain.LessonQuizOption, error)
	UpdateOption(ctx context.Context, questionID, id domain.ID, req api.UpdateOptionRequest) (domain.LessonQuizOption, error)
	DeleteOption(ctx context.Context, questionID, id domain.ID) error
	// MarkCorrect makes id the only correct option of its question in one call.
	// It returns api.ErrMarkCorrectUnsupported when the backend lacks the endpoint.
	MarkCorrect(ctx context.Context, questionID, id domain.ID) ([]domain.LessonQuizOption, error)
}

type quizService struct {
	cache     *querycache.Cache
	iv        invalidator
	quizzes   children[domain.LessonQuiz, api.CreateQuizRequest, api.UpdateQuizRequest]
	questions QuestionsBackend
	options   OptionsBackend
}

func NewQuizService(log *logger.Logger, cache *querycache.Cache, quizzes QuizzesBackend, questions QuestionsBackend, options OptionsBackend) QuizService {
	iv := invalidator{cache: cache, log: log.With("service", "QuizService")}
	return &quizService{
		cache:     cache,
		iv:        iv,
		quizzes:   children[domain.LessonQuiz, api.CreateQuizRequest, api.UpdateQuizRequest]{cache: cache, iv: iv, keys: QuizKeys, backend: quizzes},
		questions: questions,
		options:   options,
	}
}

func (s *quizService) ListQuizzes(ctx context.Context, lessonID domain.ID, p api.ListParams) (api.Page[domain.LessonQuiz], error) {
	return s.quizzes.list(ctx, lessonID, p)
}

func (s *quizService) GetQuiz(ctx context.Context, id domain.ID) (domain.LessonQuiz, error) {
	return s.quizzes.get(ctx, id)
}

func (s *quizService) CreateQuiz(ctx context.Context, req api.CreateQuizRequest) (domain.LessonQuiz, error) {
	return s.quizzes.create(ctx, req.LessonID, req)
}

func (s *quizService) UpdateQuiz(ctx context.Context, lessonID, id domain.ID, req api.UpdateQuizRequest) (domain.LessonQuiz, error) {
	return s.quizzes.update(ctx, lessonID, id, req)
}

func (s *quizService) DeleteQuiz(ctx context.Context, lessonID, id domain.ID) error {
	if err := s.quizzes.delete(ctx, lessonID, id); err != nil {
		return err
	}
	s.iv.remove(ctx, QuestionKeys.ByParent(id))
	return nil
}

func (s *quizService) ListQuestions(ctx context.Context, quizID domain.ID) ([]domain.LessonQuizQuestion, error) {
	page, err := querycache.Fetch(ctx, s.cache, querycache.Query[api.Page[domain.LessonQuizQuestion]]{
		Key: QuestionKeys.ByParent(quizID),
		Fn: func(ctx context.Context) (api.Page[domain.LessonQuizQuestion], error) {
			return s.questions.ListByQuiz(ctx, quizID)
		},
	})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (s *quizService) CreateQuestion(ctx context.Context, req api.CreateQuestionRequest) (domain.LessonQuizQuestion, error) {
	q, err := s.questions.Create(ctx, req)
	if err != nil {
		return domain.LessonQuizQuestion{}, err
	}
	s.iv.invalidate(ctx, QuestionKeys.ByParent(req.QuizID))
	return q, nil
}

func (s *quizService) UpdateQuestion(ctx context.Context, quizID, id domain.ID, req api.UpdateQuestionRequest) (domain.LessonQuizQuestion, error) {
	q, err := s.questions.Update(ctx, id, req)
	if err != nil {
		return domain.LessonQuizQuestion{}, err
	}
	s.iv.invalidate(ctx, QuestionKeys.ByParent(quizID))
	return q, nil
}

func (s *quizService) DeleteQuestion(ctx context.Context, quizID, id domain.ID) error {
	if err := s.questions.Delete(ctx, id); err != nil {
		return err
	}
	s.iv.invalidate(ctx, QuestionKeys.ByParent(quizID))
	s.iv.remove(ctx, OptionKeys.ByParent(id))
	return nil
}

func (s *quizService) ListOptions(ctx context.Context, questionID domain.ID) ([]domain.LessonQuizOption, error) {
	page, err := querycache.Fetch(ctx, s.cache, querycache.Query[api.Page[domain.LessonQuizOption]]{
		Key: OptionKeys.ByParent(questionID),
		Fn: func(ctx context.Context) (api.Page[domain.LessonQuizOption], error) {
			return s.options.ListByQuestion(ctx, questionID)
		},
	})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (s *quizService) CreateOption(ctx context.Context, req api.CreateOptionRequest) (domain.LessonQuizOption, error) {
	o, err := s.options.Create(ctx, req)
	if err != nil {
		return domain.LessonQuizOption{}, err
	}
	s.iv.invalidate(ctx, OptionKeys.ByParent(req.QuestionID))
	return o, nil
}

func (s *quizService) UpdateOption(ctx context.Context, questionID, id domain.ID, req api.UpdateOptionRequest) (domain.LessonQuizOption, error) {
	o, err := s.options.Update(ctx, id, req)
	if err != nil {
		return domain.LessonQuizOption{}, err
	}
	s.iv.invalidate(ctx, OptionKeys.ByParent(questionID))
	return o, nil
}

func (s *quizService) DeleteOption(ctx context.Context, questionID, id domain.ID) error {
	if err := s.options.Delete(ctx, id); err != nil {
		return err
	}
	s.iv.invalidate(ctx, OptionKeys.ByParent(questionID))
	return nil
}

func (s *quizService) MarkCorrect(ctx context.Context, questionID, id domain.ID) ([]domain.LessonQuizOption, error) {
	opts, err := s.options.MarkCorrect(ctx, id)
	if err != nil {
		return nil, err
	}
	s.iv.invalidate(ctx, OptionKeys.ByParent(questionID))
	return opts, nil
}
