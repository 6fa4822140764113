package api

import (
	"context"

	"github.com/yungbote/lesson-admin/internal/domain"
)

type CreateMaterialRequest struct {
	LessonID domain.ID
	Title    string
	Type     domain.MaterialType
	// URL is required for link materials; File for file materials.
	URL      string
	File     *FileUpload
	IsActive bool
}

func (r CreateMaterialRequest) MultipartFields() Form {
	var f Form
	f.Set("lessonId", r.LessonID.String())
	f.Set("title", r.Title)
	f.Set("type", string(r.Type))
	if r.URL != "" {
		f.Set("url", r.URL)
	}
	f.SetBool("isActive", r.IsActive)
	f.SetFile("file", r.File)
	return f
}

type UpdateMaterialRequest struct {
	Title    *string
	Type     *domain.MaterialType
	URL      *string
	File     *FileUpload
	IsActive *bool
	Order    *int
}

func (r UpdateMaterialRequest) MultipartFields() Form {
	var f Form
	if r.Title != nil {
		f.Set("title", *r.Title)
	}
	if r.Type != nil {
		f.Set("type", string(*r.Type))
	}
	if r.URL != nil {
		f.Set("url", *r.URL)
	}
	if r.IsActive != nil {
		f.SetBool("isActive", *r.IsActive)
	}
	if r.Order != nil {
		f.SetInt("order", *r.Order)
	}
	f.SetFile("file", r.File)
	return f
}

type MaterialsAPI struct {
	r resource[domain.LessonMaterial]
}

func (c *Client) Materials() MaterialsAPI {
	return MaterialsAPI{r: resource[domain.LessonMaterial]{c: c, path: "/lesson-materials"}}
}

func (a MaterialsAPI) ListByLesson(ctx context.Context, lessonID domain.ID, p ListParams) (Page[domain.LessonMaterial], error) {
	return a.r.list(ctx, p.with("lessonId", lessonID.String()))
}

func (a MaterialsAPI) Get(ctx context.Context, id domain.ID) (domain.LessonMaterial, error) {
	return a.r.get(ctx, id)
}

func (a MaterialsAPI) Create(ctx context.Context, req CreateMaterialRequest) (domain.LessonMaterial, error) {
	return a.r.create(ctx, req)
}

func (a MaterialsAPI) Update(ctx context.Context, id domain.ID, req UpdateMaterialRequest) (domain.LessonMaterial, error) {
	return a.r.update(ctx, id, req)
}

func (a MaterialsAPI) Delete(ctx context.Context, id domain.ID) error {
	return a.r.delete(ctx, id)
}
