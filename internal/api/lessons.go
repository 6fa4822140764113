package api

import (
	"context"
	"net/http"

	"github.com/yungbote/lesson-admin/internal/domain"
)

type CreateLessonRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	LevelID     domain.ID `json:"levelId,omitempty"`
}

// UpdateLessonRequest only sends the fields that are set.
type UpdateLessonRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	IsActive    *bool      `json:"isActive,omitempty"`
	LevelID     *domain.ID `json:"levelId,omitempty"`
	Order       *int       `json:"order,omitempty"`
}

type LessonsAPI struct {
	r resource[domain.Lesson]
}

func (c *Client) Lessons() LessonsAPI {
	return LessonsAPI{r: resource[domain.Lesson]{c: c, path: "/lessons"}}
}

// List accepts "levelId" in p.Filters.
func (a LessonsAPI) List(ctx context.Context, p ListParams) (Page[domain.Lesson], error) {
	return a.r.list(ctx, p)
}

func (a LessonsAPI) Get(ctx context.Context, id domain.ID) (domain.Lesson, error) {
	return a.r.get(ctx, id)
}

func (a LessonsAPI) Create(ctx context.Context, req CreateLessonRequest) (domain.Lesson, error) {
	return a.r.create(ctx, req)
}

func (a LessonsAPI) Update(ctx context.Context, id domain.ID, req UpdateLessonRequest) (domain.Lesson, error) {
	return a.r.update(ctx, id, req)
}

func (a LessonsAPI) Delete(ctx context.Context, id domain.ID) error {
	return a.r.delete(ctx, id)
}

func (c *Client) Levels(ctx context.Context) ([]domain.Level, error) {
	raw, err := c.do(ctx, http.MethodGet, "/levels", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.Level](raw)
}
