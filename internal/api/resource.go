package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/yungbote/lesson-admin/internal/domain"
)

// resource implements the CRUD calls every entity endpoint shares.
type resource[T any] struct {
	c    *Client
	path string
}

func (r resource[T]) itemPath(id domain.ID) string {
	return r.path + "/" + url.PathEscape(id.String())
}

func (r resource[T]) list(ctx context.Context, p ListParams) (Page[T], error) {
	raw, err := r.c.do(ctx, http.MethodGet, r.path, p.Values(), nil)
	if err != nil {
		return Page[T]{}, err
	}
	return decodePage[T](raw)
}

func (r resource[T]) get(ctx context.Context, id domain.ID) (T, error) {
	raw, err := r.c.do(ctx, http.MethodGet, r.itemPath(id), nil, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeData[T](raw)
}

func (r resource[T]) create(ctx context.Context, body any) (T, error) {
	raw, err := r.c.do(ctx, http.MethodPost, r.path, nil, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeData[T](raw)
}

// update sends PATCH for JSON bodies. Multipart bodies go as POST with a
// _method=PATCH override because form-data PATCH bodies are not parsed server side.
func (r resource[T]) update(ctx context.Context, id domain.ID, body any) (T, error) {
	method := http.MethodPatch
	if mb, ok := body.(MultipartBody); ok {
		method = http.MethodPost
		body = patchOverride{mb}
	}
	raw, err := r.c.do(ctx, method, r.itemPath(id), nil, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeData[T](raw)
}

func (r resource[T]) delete(ctx context.Context, id domain.ID) error {
	_, err := r.c.do(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
	return err
}

type patchOverride struct{ MultipartBody }

func (p patchOverride) MultipartFields() Form {
	f := p.MultipartBody.MultipartFields()
	f.Set("_method", "PATCH")
	return f
}
