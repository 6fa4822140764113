package api

import (
	"context"

	"github.com/yungbote/lesson-admin/internal/domain"
)

type CreateAssignmentRequest struct {
	LessonID    domain.ID
	Title       string
	Description string
	DueDate     string
	MaxScore    int
	IsActive    bool
	File        *FileUpload
}

func (r CreateAssignmentRequest) MultipartFields() Form {
	var f Form
	f.Set("lessonId", r.LessonID.String())
	f.Set("title", r.Title)
	f.Set("description", r.Description)
	if r.DueDate != "" {
		f.Set("dueDate", r.DueDate)
	}
	f.SetInt("maxScore", r.MaxScore)
	f.SetBool("isActive", r.IsActive)
	f.SetFile("file", r.File)
	return f
}

type UpdateAssignmentRequest struct {
	Title       *string
	Description *string
	DueDate     *string
	MaxScore    *int
	IsActive    *bool
	File        *FileUpload
}

func (r UpdateAssignmentRequest) MultipartFields() Form {
	var f Form
	if r.Title != nil {
		f.Set("title", *r.Title)
	}
	if r.Description != nil {
		f.Set("description", *r.Description)
	}
	if r.DueDate != nil {
		f.Set("dueDate", *r.DueDate)
	}
	if r.MaxScore != nil {
		f.SetInt("maxScore", *r.MaxScore)
	}
	if r.IsActive != nil {
		f.SetBool("isActive", *r.IsActive)
	}
	f.SetFile("file", r.File)
	return f
}

type AssignmentsAPI struct {
	r resource[domain.LessonAssignment]
}

func (c *Client) Assignments() AssignmentsAPI {
	return AssignmentsAPI{r: resource[domain.LessonAssignment]{c: c, path: "/lesson-assignments"}}
}

func (a AssignmentsAPI) ListByLesson(ctx context.Context, lessonID domain.ID, p ListParams) (Page[domain.LessonAssignment], error) {
	return a.r.list(ctx, p.with("lessonId", lessonID.String()))
}

func (a AssignmentsAPI) Get(ctx context.Context, id domain.ID) (domain.LessonAssignment, error) {
	return a.r.get(ctx, id)
}

func (a AssignmentsAPI) Create(ctx context.Context, req CreateAssignmentRequest) (domain.LessonAssignment, error) {
	return a.r.create(ctx, req)
}

func (a AssignmentsAPI) Update(ctx context.Context, id domain.ID, req UpdateAssignmentRequest) (domain.LessonAssignment, error) {
	return a.r.update(ctx, id, req)
}

func (a AssignmentsAPI) Delete(ctx context.Context, id domain.ID) error {
	return a.r.delete(ctx, id)
}
