package api

import (
	"context"

	"github.com/yungbote/lesson-admin/internal/domain"
)

type CreateVideoRequest struct {
	LessonID         domain.ID            `json:"lessonId"`
	Title            string               `json:"title"`
	Duration         int                  `json:"duration"`
	Provider         domain.VideoProvider `json:"provider"`
	VideoReferenceAr string               `json:"videoReferenceAr"`
	VideoReferenceEn string               `json:"videoReferenceEn"`
	IsActive         bool                 `json:"isActive"`
}

type UpdateVideoRequest struct {
	Title            *string               `json:"title,omitempty"`
	Duration         *int                  `json:"duration,omitempty"`
	Provider         *domain.VideoProvider `json:"provider,omitempty"`
	VideoReferenceAr *string               `json:"videoReferenceAr,omitempty"`
	VideoReferenceEn *string               `json:"videoReferenceEn,omitempty"`
	IsActive         *bool                 `json:"isActive,omitempty"`
	Order            *int                  `json:"order,omitempty"`
}

type VideosAPI struct {
	r resource[domain.LessonVideo]
}

func (c *Client) Videos() VideosAPI {
	return VideosAPI{r: resource[domain.LessonVideo]{c: c, path: "/lesson-videos"}}
}

func (a VideosAPI) ListByLesson(ctx context.Context, lessonID domain.ID, p ListParams) (Page[domain.LessonVideo], error) {
	return a.r.list(ctx, p.with("lessonId", lessonID.String()))
}

func (a VideosAPI) Get(ctx context.Context, id domain.ID) (domain.LessonVideo, error) {
	return a.r.get(ctx, id)
}

func (a VideosAPI) Create(ctx context.Context, req CreateVideoRequest) (domain.LessonVideo, error) {
	return a.r.create(ctx, req)
}

func (a VideosAPI) Update(ctx context.Context, id domain.ID, req UpdateVideoRequest) (domain.LessonVideo, error) {
	return a.r.update(ctx, id, req)
}

func (a VideosAPI) Delete(ctx context.Context, id domain.ID) error {
	return a.r.delete(ctx, id)
}

type CreateVideoQuizRequest struct {
	VideoID      domain.ID `json:"videoId"`
	Title        string    `json:"title"`
	AppearAt     int       `json:"appearAt"`
	PassingScore int       `json:"passingScore"`
	IsActive     bool      `json:"isActive"`
}

type UpdateVideoQuizRequest struct {
	Title        *string `json:"title,omitempty"`
	AppearAt     *int    `json:"appearAt,omitempty"`
	PassingScore *int    `json:"passingScore,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

type VideoQuizzesAPI struct {
	r resource[domain.VideoQuiz]
}

func (c *Client) VideoQuizzes() VideoQuizzesAPI {
	return VideoQuizzesAPI{r: resource[domain.VideoQuiz]{c: c, path: "/video-quizzes"}}
}

func (a VideoQuizzesAPI) ListByVideo(ctx context.Context, videoID domain.ID) (Page[domain.VideoQuiz], error) {
	return a.r.list(ctx, ListParams{}.with("videoId", videoID.String()))
}

func (a VideoQuizzesAPI) Create(ctx context.Context, req CreateVideoQuizRequest) (domain.VideoQuiz, error) {
	return a.r.create(ctx, req)
}

func (a VideoQuizzesAPI) Update(ctx context.Context, id domain.ID, req UpdateVideoQuizRequest) (domain.VideoQuiz, error) {
	return a.r.update(ctx, id, req)
}

func (a VideoQuizzesAPI) Delete(ctx context.Context, id domain.ID) error {
	return a.r.delete(ctx, id)
}
