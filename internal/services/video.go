package services

import (
	"context"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/domain"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/querycache"
)

type VideosBackend = ChildBackend[domain.LessonVideo, api.CreateVideoRequest, api.UpdateVideoRequest]

type VideoQuizzesBackend interface {
	ListByVideo(ctx context.Context, videoID domain.ID) (api.Page[domain.VideoQuiz], error)
	Create(ctx context.Context, req api.CreateVideoQuizRequest) (domain.VideoQuiz, error)
	Update(ctx context.Context, id domain.ID, req api.UpdateVideoQuizRequest) (domain.VideoQuiz, error)
	Delete(ctx context.Context, id domain.ID) error
}

type VideoService interface {
	ListVideos(ctx context.Context, lessonID domain.ID, p api.ListParams) (api.Page[domain.LessonVideo], error)
	GetVideo(ctx context.Context, id domain.ID) (domain.LessonVideo, error)
	CreateVideo(ctx context.Context, req api.CreateVideoRequest) (domain.LessonVideo, error)
	UpdateVideo(ctx context.Context, lessonID, id domain.ID, req api.UpdateVideoRequest) (domain.LessonVideo, error)
	DeleteVideo(ctx context.Context, lessonID, id domain.ID) error

	ListVideoQuizzes(ctx context.Context, videoID domain.ID) (api.Page[domain.VideoQuiz], error)
	CreateVideoQuiz(ctx context.Context, req api.CreateVideoQuizRequest) (domain.VideoQuiz, error)
	UpdateVideoQuiz(ctx context.Context, videoID, id domain.ID, req api.UpdateVideoQuizRequest) (domain.VideoQuiz, error)
	DeleteVideoQuiz(ctx context.Context, videoID, id domain.ID) error
}

type videoService struct {
	cache   *querycache.Cache
	iv      invalidator
	videos  children[domain.LessonVideo, api.CreateVideoRequest, api.UpdateVideoRequest]
	quizzes VideoQuizzesBackend
}

func NewVideoService(log *logger.Logger, cache *querycache.Cache, videos VideosBackend, quizzes VideoQuizzesBackend) VideoService {
	iv := invalidator{cache: cache, log: log.With("service", "VideoService")}
	return &videoService{
		cache:   cache,
		iv:      iv,
		videos:  children[domain.LessonVideo, api.CreateVideoRequest, api.UpdateVideoRequest]{cache: cache, iv: iv, keys: VideoKeys, backend: videos},
		quizzes: quizzes,
	}
}

func (s *videoService) ListVideos(ctx context.Context, lessonID domain.ID, p api.ListParams) (api.Page[domain.LessonVideo], error) {
	return s.videos.list(ctx, lessonID, p)
}

func (s *videoService) GetVideo(ctx context.Context, id domain.ID) (domain.LessonVideo, error) {
	return s.videos.get(ctx, id)
}

func (s *videoService) CreateVideo(ctx context.Context, req api.CreateVideoRequest) (domain.LessonVideo, error) {
	return s.videos.create(ctx, req.LessonID, req)
}

func (s *videoService) UpdateVideo(ctx context.Context, lessonID, id domain.ID, req api.UpdateVideoRequest) (domain.LessonVideo, error) {
	return s.videos.update(ctx, lessonID, id, req)
}

func (s *videoService) DeleteVideo(ctx context.Context, lessonID, id domain.ID) error {
	if err := s.videos.delete(ctx, lessonID, id); err != nil {
		return err
	}
	s.iv.remove(ctx, VideoQuizKeys.ByParent(id))
	return nil
}

func (s *videoService) ListVideoQuizzes(ctx context.Context, videoID domain.ID) (api.Page[domain.VideoQuiz], error) {
	return querycache.Fetch(ctx, s.cache, querycache.Query[api.Page[domain.VideoQuiz]]{
		Key: VideoQuizKeys.ByParent(videoID),
		Fn: func(ctx context.Context) (api.Page[domain.VideoQuiz], error) {
			return s.quizzes.ListByVideo(ctx, videoID)
		},
	})
}

func (s *videoService) CreateVideoQuiz(ctx context.Context, req api.CreateVideoQuizRequest) (domain.VideoQuiz, error) {
	q, err := s.quizzes.Create(ctx, req)
	if err != nil {
		return domain.VideoQuiz{}, err
	}
	s.iv.invalidate(ctx, VideoQuizKeys.ByParent(req.VideoID))
	return q, nil
}

func (s *videoService) UpdateVideoQuiz(ctx context.Context, videoID, id domain.ID, req api.UpdateVideoQuizRequest) (domain.VideoQuiz, error) {
	q, err := s.quizzes.Update(ctx, id, req)
	if err != nil {
		return domain.VideoQuiz{}, err
	}
	s.iv.invalidate(ctx, VideoQuizKeys.ByParent(videoID))
	return q, nil
}

func (s *videoService) DeleteVideoQuiz(ctx context.Context, videoID, id domain.ID) error {
	if err := s.quizzes.Delete(ctx, id); err != nil {
		return err
	}
	s.iv.invalidate(ctx, VideoQuizKeys.ByParent(videoID))
	return nil
}
