package services

import (
	"context"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/domain"
	"github.com/yungbote/lesson-admin/internal/querycache"
)

// ChildBackend is the endpoint shape shared by the lesson's child entities
// (videos, quizzes, assignments, materials).
type ChildBackend[T, C, U any] interface {
	ListByLesson(ctx context.Context, lessonID domain.ID, p api.ListParams) (api.Page[T], error)
	Get(ctx context.Context, id domain.ID) (T, error)
	Create(ctx context.Context, req C) (T, error)
	Update(ctx context.Context, id domain.ID, req U) (T, error)
	Delete(ctx context.Context, id domain.ID) error
}

// children caches one child entity under its lesson. Mutations invalidate
// the lesson's lists and keep the detail entry in step.
type children[T, C, U any] struct {
	cache   *querycache.Cache
	iv      invalidator
	keys    querycache.KeyFactory
	backend ChildBackend[T, C, U]
}

func (c children[T, C, U]) list(ctx context.Context, lessonID domain.ID, p api.ListParams) (api.Page[T], error) {
	return querycache.Fetch(ctx, c.cache, querycache.Query[api.Page[T]]{
		Key: c.keys.ByParentPage(lessonID, p.KeyParams()),
		Fn: func(ctx context.Context) (api.Page[T], error) {
			return c.backend.ListByLesson(ctx, lessonID, p)
		},
	})
}

func (c children[T, C, U]) get(ctx context.Context, id domain.ID) (T, error) {
	return querycache.Fetch(ctx, c.cache, querycache.Query[T]{
		Key: c.keys.Detail(id),
		Fn: func(ctx context.Context) (T, error) {
			return c.backend.Get(ctx, id)
		},
	})
}

func (c children[T, C, U]) create(ctx context.Context, lessonID domain.ID, req C) (T, error) {
	out, err := c.backend.Create(ctx, req)
	if err != nil {
		var zero T
		return zero, err
	}
	c.iv.invalidate(ctx, c.keys.ByParent(lessonID))
	return out, nil
}

func (c children[T, C, U]) update(ctx context.Context, lessonID, id domain.ID, req U) (T, error) {
	out, err := c.backend.Update(ctx, id, req)
	if err != nil {
		var zero T
		return zero, err
	}
	c.iv.prime(ctx, c.keys.Detail(id), out)
	c.iv.invalidate(ctx, c.keys.ByParent(lessonID))
	return out, nil
}

func (c children[T, C, U]) delete(ctx context.Context, lessonID, id domain.ID) error {
	if err := c.backend.Delete(ctx, id); err != nil {
		return err
	}
	c.iv.remove(ctx, c.keys.Detail(id))
	c.iv.invalidate(ctx, c.keys.ByParent(lessonID))
	return nil
}
