package services

import (
	"context"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/domain"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/querycache"
)

type LevelsBackend interface {
	Levels(ctx context.Context) ([]domain.Level, error)
}

type LessonsBackend interface {
	List(ctx context.Context, p api.ListParams) (api.Page[domain.Lesson], error)
	Get(ctx context.Context, id domain.ID) (domain.Lesson, error)
	Create(ctx context.Context, req api.CreateLessonRequest) (domain.Lesson, error)
	Update(ctx context.Context, id domain.ID, req api.UpdateLessonRequest) (domain.Lesson, error)
	Delete(ctx context.Context, id domain.ID) error
}

type LessonService interface {
	ListLevels(ctx context.Context) ([]domain.Level, error)
	ListLessons(ctx context.Context, p api.ListParams) (api.Page[domain.Lesson], error)
	GetLesson(ctx context.Context, id domain.ID) (domain.Lesson, error)
	CreateLesson(ctx context.Context, req api.CreateLessonRequest) (domain.Lesson, error)
	UpdateLesson(ctx context.Context, id domain.ID, req api.UpdateLessonRequest) (domain.Lesson, error)
	DeleteLesson(ctx context.Context, id domain.ID) error
}

type lessonService struct {
	log     *logger.Logger
	cache   *querycache.Cache
	iv      invalidator
	levels  LevelsBackend
	lessons LessonsBackend
}

func NewLessonService(log *logger.Logger, cache *querycache.Cache, levels LevelsBackend, lessons LessonsBackend) LessonService {
	serviceLog := log.With("service", "LessonService")
	return &lessonService{
		log:     serviceLog,
		cache:   cache,
		iv:      invalidator{cache: cache, log: serviceLog},
		levels:  levels,
		lessons: lessons,
	}
}

func (s *lessonService) ListLevels(ctx context.Context) ([]domain.Level, error) {
	return querycache.Fetch(ctx, s.cache, querycache.Query[[]domain.Level]{
		Key:       LevelKeys.All(),
		Fn:        s.levels.Levels,
		StaleTime: levelsStaleTime,
	})
}

func (s *lessonService) ListLessons(ctx context.Context, p api.ListParams) (api.Page[domain.Lesson], error) {
	return querycache.Fetch(ctx, s.cache, querycache.Query[api.Page[domain.Lesson]]{
		Key: LessonKeys.List(p.KeyParams()),
		Fn: func(ctx context.Context) (api.Page[domain.Lesson], error) {
			return s.lessons.List(ctx, p)
		},
	})
}

func (s *lessonService) GetLesson(ctx context.Context, id domain.ID) (domain.Lesson, error) {
	return querycache.Fetch(ctx, s.cache, querycache.Query[domain.Lesson]{
		Key: LessonKeys.Detail(id),
		Fn: func(ctx context.Context) (domain.Lesson, error) {
			return s.lessons.Get(ctx, id)
		},
	})
}

func (s *lessonService) CreateLesson(ctx context.Context, req api.CreateLessonRequest) (domain.Lesson, error) {
	l, err := s.lessons.Create(ctx, req)
	if err != nil {
		return domain.Lesson{}, err
	}
	s.iv.invalidate(ctx, LessonKeys.Lists())
	return l, nil
}

func (s *lessonService) UpdateLesson(ctx context.Context, id domain.ID, req api.UpdateLessonRequest) (domain.Lesson, error) {
	l, err := s.lessons.Update(ctx, id, req)
	if err != nil {
		return domain.Lesson{}, err
	}
	s.iv.prime(ctx, LessonKeys.Detail(id), l)
	s.iv.invalidate(ctx, LessonKeys.Lists())
	return l, nil
}

func (s *lessonService) DeleteLesson(ctx context.Context, id domain.ID) error {
	if err := s.lessons.Delete(ctx, id); err != nil {
		return err
	}
	s.iv.remove(ctx, LessonKeys.Detail(id))
	s.iv.invalidate(ctx, LessonKeys.Lists())
	return nil
}
