package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/domain"
	"github.com/yungbote/lesson-admin/internal/forms"
	"github.com/yungbote/lesson-admin/internal/http/response"
	"github.com/yungbote/lesson-admin/internal/services"
)

type videoInput struct {
	Title            string               `json:"title" validate:"notblank,max=255"`
	Duration         int                  `json:"duration" validate:"min=0"`
	Provider         domain.VideoProvider `json:"provider" validate:"oneof=youtube vimeo bunny"`
	VideoReferenceAr string               `json:"videoReferenceAr" validate:"max=500"`
	VideoReferenceEn string               `json:"videoReferenceEn" validate:"max=500"`
	IsActive         bool                 `json:"isActive"`
}

type videoQuizInput struct {
	Title        string `json:"title" validate:"notblank,max=255"`
	AppearAt     int    `json:"appearAt" validate:"min=0"`
	PassingScore int    `json:"passingScore" validate:"min=0,max=100"`
	IsActive     bool   `json:"isActive"`
}

type VideoHandler struct {
	videos   services.VideoService
	validate *forms.Validator
}

func NewVideoHandler(videos services.VideoService, v *forms.Validator) *VideoHandler {
	return &VideoHandler{videos: videos, validate: v}
}

// GET /api/lessons/:id/videos
func (h *VideoHandler) ListLessonVideos(c *gin.Context) {
	lessonID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, err := h.videos.ListVideos(c.Request.Context(), lessonID, listParams(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondPage(c, page)
}

// POST /api/lessons/:id/videos
func (h *VideoHandler) CreateVideo(c *gin.Context) {
	lessonID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in videoInput
	if !bindJSON(c, &in) || !validate(c, h.validate, in) {
		return
	}
	v, err := h.videos.CreateVideo(c.Request.Context(), api.CreateVideoRequest{
		LessonID:         lessonID,
		Title:            in.Title,
		Duration:         in.Duration,
		Provider:         in.Provider,
		VideoReferenceAr: in.VideoReferenceAr,
		VideoReferenceEn: in.VideoReferenceEn,
		IsActive:         in.IsActive,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"data": v})
}

// GET /api/videos/:id
func (h *VideoHandler) GetVideo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.videos.GetVideo(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"data": v})
}

// PATCH /api/videos/:id
func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req api.UpdateVideoRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Provider != nil && !validProvider(*req.Provider) {
		respondInvalid(c, "provider", "provider must be one of [youtube vimeo bunny]")
		return
	}
	ctx := c.Request.Context()
	cur, err := h.videos.GetVideo(ctx, id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	v, err := h.videos.UpdateVideo(ctx, cur.LessonID, id, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"data": v})
}

// DELETE /api/videos/:id
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	cur, err := h.videos.GetVideo(ctx, id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if err := h.videos.DeleteVideo(ctx, cur.LessonID, id); err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/videos/:id/quizzes
func (h *VideoHandler) ListVideoQuizzes(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, err := h.videos.ListVideoQuizzes(c.Request.Context(), videoID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondPage(c, page)
}

// POST /api/videos/:id/quizzes
func (h *VideoHandler) CreateVideoQuiz(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in videoQuizInput
	if !bindJSON(c, &in) || !validate(c, h.validate, in) {
		return
	}
	q, err := h.videos.CreateVideoQuiz(c.Request.Context(), api.CreateVideoQuizRequest{
		VideoID:      videoID,
		Title:        in.Title,
		AppearAt:     in.AppearAt,
		PassingScore: in.PassingScore,
		IsActive:     in.IsActive,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"data": q})
}

// PATCH /api/videos/:id/quizzes/:quizId
func (h *VideoHandler) UpdateVideoQuiz(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	quizID, ok := pathID(c, "quizId")
	if !ok {
		return
	}
	var req api.UpdateVideoQuizRequest
	if !bindJSON(c, &req) {
		return
	}
	q, err := h.videos.UpdateVideoQuiz(c.Request.Context(), videoID, quizID, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"data": q})
}

// DELETE /api/videos/:id/quizzes/:quizId
func (h *VideoHandler) DeleteVideoQuiz(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	quizID, ok := pathID(c, "quizId")
	if !ok {
		return
	}
	if err := h.videos.DeleteVideoQuiz(c.Request.Context(), videoID, quizID); err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func validProvider(p domain.VideoProvider) bool {
	switch p {
	case "youtube", "vimeo", "bunny":
		return true
	}
	return false
}
