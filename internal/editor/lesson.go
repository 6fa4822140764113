package editor

import (
	"context"
	"fmt"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/domain"
	"github.com/yungbote/lesson-admin/internal/forms"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/services"
)

const lessonsPath = "/lessons"

type LessonForm struct {
	Title       string    `json:"title" validate:"notblank,max=255"`
	Description string    `json:"description" validate:"max=5000"`
	IsActive    bool      `json:"isActive"`
	LevelID     domain.ID `json:"levelId"`
}

func LessonFormFrom(l domain.Lesson) LessonForm {
	f := LessonForm{Title: l.Title, Description: l.Description, IsActive: l.IsActive, LevelID: l.LevelID}
	if f.LevelID.IsZero() && l.Level != nil {
		f.LevelID = l.Level.ID
	}
	return f
}

// LessonEditor holds the edit buffer of one lesson. A zero id creates.
type LessonEditor struct {
	log      *logger.Logger
	lessons  services.LessonService
	validate *forms.Validator
	id       domain.ID
	Form     LessonForm
	OnSaved  func(SaveEvent)
}

func NewLessonEditor(log *logger.Logger, lessons services.LessonService, v *forms.Validator, id domain.ID) *LessonEditor {
	return &LessonEditor{
		log:      log.With("service", "LessonEditor", "lessonId", id.String()),
		lessons:  lessons,
		validate: v,
		id:       id,
	}
}

func (e *LessonEditor) ID() domain.ID { return e.id }

// Load fills the form buffer from the lesson detail.
func (e *LessonEditor) Load(ctx context.Context) error {
	if e.id.IsZero() {
		return nil
	}
	l, err := e.lessons.GetLesson(ctx, e.id)
	if err != nil {
		return fmt.Errorf("load lesson %s: %w", e.id, err)
	}
	e.Form = LessonFormFrom(l)
	return nil
}

// Submit validates the buffer and saves it with one backend call.
func (e *LessonEditor) Submit(ctx context.Context) Outcome {
	if fe := e.validate.Struct(e.Form); fe != nil {
		return invalid(fe)
	}
	if e.id.IsZero() {
		l, err := e.lessons.CreateLesson(ctx, api.CreateLessonRequest{
			Title:       e.Form.Title,
			Description: e.Form.Description,
			IsActive:    e.Form.IsActive,
			LevelID:     e.Form.LevelID,
		})
		if err != nil {
			return failure(e.log, "create lesson", err)
		}
		e.id = l.ID
		e.saved("create")
		out := success("Lesson created")
		out.Redirect = lessonsPath
		return out
	}

	req := api.UpdateLessonRequest{
		Title:       &e.Form.Title,
		Description: &e.Form.Description,
		IsActive:    &e.Form.IsActive,
	}
	if !e.Form.LevelID.IsZero() {
		req.LevelID = &e.Form.LevelID
	}
	if _, err := e.lessons.UpdateLesson(ctx, e.id, req); err != nil {
		return failure(e.log, "update lesson", err)
	}
	e.saved("update")
	out := success("Lesson updated")
	out.Redirect = lessonsPath
	return out
}

func (e *LessonEditor) Delete(ctx context.Context) Outcome {
	if err := e.lessons.DeleteLesson(ctx, e.id); err != nil {
		return failure(e.log, "delete lesson", err)
	}
	e.saved("delete")
	out := success("Lesson deleted")
	out.Redirect = lessonsPath
	return out
}

func (e *LessonEditor) saved(action string) {
	if e.OnSaved != nil {
		e.OnSaved(SaveEvent{Entity: "lesson", Action: action, ID: e.id.String()})
	}
}
