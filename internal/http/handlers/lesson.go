package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/lesson-admin/internal/domain"
	"github.com/yungbote/lesson-admin/internal/editor"
	"github.com/yungbote/lesson-admin/internal/forms"
	"github.com/yungbote/lesson-admin/internal/http/response"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/services"
)

type LessonHandler struct {
	log      *logger.Logger
	lessons  services.LessonService
	validate *forms.Validator
}

func NewLessonHandler(log *logger.Logger, lessons services.LessonService, v *forms.Validator) *LessonHandler {
	return &LessonHandler{log: log.With("handler", "LessonHandler"), lessons: lessons, validate: v}
}

// GET /api/levels
func (h *LessonHandler) ListLevels(c *gin.Context) {
	levels, err := h.lessons.ListLevels(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"data": levels})
}

// GET /api/lessons?page=&perPage=&search=&levelId=
func (h *LessonHandler) ListLessons(c *gin.Context) {
	page, err := h.lessons.ListLessons(c.Request.Context(), listParams(c, "levelId"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondPage(c, page)
}

// GET /api/lessons/:id returns the lesson and its edit form buffer.
func (h *LessonHandler) GetLesson(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ed := editor.NewLessonEditor(h.log, h.lessons, h.validate, id)
	if err := ed.Load(c.Request.Context()); err != nil {
		response.RespondErr(c, err)
		return
	}
	l, err := h.lessons.GetLesson(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"data": l, "form": ed.Form})
}

// POST /api/lessons
func (h *LessonHandler) CreateLesson(c *gin.Context) {
	h.submit(c, "")
}

// PUT /api/lessons/:id
func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.submit(c, id)
}

func (h *LessonHandler) submit(c *gin.Context, id domain.ID) {
	var form editor.LessonForm
	if !bindJSON(c, &form) {
		return
	}
	ed := editor.NewLessonEditor(h.log, h.lessons, h.validate, id)
	ed.Form = form
	out := ed.Submit(c.Request.Context())
	response.RespondOutcome(c, out, gin.H{"id": ed.ID()})
}

// DELETE /api/lessons/:id
func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out := editor.NewLessonEditor(h.log, h.lessons, h.validate, id).Delete(c.Request.Context())
	response.RespondOutcome(c, out, nil)
}
