package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Page is the normalized form of the backend's paginated list response.
type Page[T any] struct {
	Items       []T    `json:"items"`
	CurrentPage int    `json:"currentPage"`
	PerPage     int    `json:"perPage"`
	LastPage    int    `json:"lastPage"`
	NextPageURL string `json:"nextPageUrl,omitempty"`
}

func (p Page[T]) HasNext() bool { return p.CurrentPage < p.LastPage }

type rawPage[T any] struct {
	Data        *[]T    `json:"data"`
	CurrentPage int     `json:"currentPage"`
	PerPage     int     `json:"perPage"`
	LastPage    int     `json:"lastPage"`
	NextPageURL *string `json:"nextPageUrl"`
}

func decodeData[T any](raw []byte) (T, error) {
	var zero T
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, fmt.Errorf("decode response: %w", err)
	}
	if isNullJSON(env.Data) {
		return zero, ErrNoData
	}
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return zero, fmt.Errorf("decode response data: %w", err)
	}
	return out, nil
}

func decodePage[T any](raw []byte) (Page[T], error) {
	var rp rawPage[T]
	if err := json.Unmarshal(raw, &rp); err != nil {
		return Page[T]{}, fmt.Errorf("decode page: %w", err)
	}
	if rp.Data == nil {
		return Page[T]{}, ErrNoData
	}
	p := Page[T]{
		Items:       *rp.Data,
		CurrentPage: rp.CurrentPage,
		PerPage:     rp.PerPage,
		LastPage:    rp.LastPage,
	}
	if rp.NextPageURL != nil {
		p.NextPageURL = *rp.NextPageURL
	}
	// Unpaginated endpoints return a bare data array.
	if p.CurrentPage <= 0 {
		p.CurrentPage = 1
	}
	if p.LastPage < p.CurrentPage {
		p.LastPage = p.CurrentPage
	}
	if p.PerPage <= 0 {
		p.PerPage = len(p.Items)
	}
	if p.Items == nil {
		p.Items = []T{}
	}
	return p, nil
}

func isNullJSON(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// ListParams are the query parameters shared by list endpoints.
type ListParams struct {
	Page    int
	PerPage int
	Search  string
	Filters map[string]string
}

func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		v.Set("perPage", strconv.Itoa(p.PerPage))
	}
	if s := strings.TrimSpace(p.Search); s != "" {
		v.Set("search", s)
	}
	for k, val := range p.Filters {
		if strings.TrimSpace(val) != "" {
			v.Set(k, val)
		}
	}
	return v
}

// KeyParams is the cache-key form of the params; zero values are omitted so
// equal requests produce equal keys.
func (p ListParams) KeyParams() map[string]any {
	out := map[string]any{}
	if p.Page > 0 {
		out["page"] = p.Page
	}
	if p.PerPage > 0 {
		out["perPage"] = p.PerPage
	}
	if s := strings.TrimSpace(p.Search); s != "" {
		out["search"] = s
	}
	keys := make([]string, 0, len(p.Filters))
	for k := range p.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.TrimSpace(p.Filters[k]) != "" {
			out[k] = p.Filters[k]
		}
	}
	return out
}

func (p ListParams) with(key, val string) ListParams {
	f := make(map[string]string, len(p.Filters)+1)
	for k, v := range p.Filters {
		f[k] = v
	}
	f[key] = val
	p.Filters = f
	return p
}
