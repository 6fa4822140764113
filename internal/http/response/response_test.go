package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/platform/apierr"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"apierr", apierr.New(http.StatusConflict, "conflict", errors.New("x")), http.StatusConflict, "conflict"},
		{"no data", fmt.Errorf("load: %w", api.ErrNoData), http.StatusBadGateway, "no_data"},
		{"validation", &api.HTTPError{StatusCode: 422, Message: "bad", ValidationErrors: map[string][]string{"title": {"required"}}}, 422, "validation_failed"},
		{"not found", &api.HTTPError{StatusCode: 404, Message: "Not found"}, 404, "backend_rejected"},
		{"server", &api.HTTPError{StatusCode: 503}, http.StatusBadGateway, "backend_error"},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "backend_timeout"},
		{"transport", errors.New("dial tcp: refused"), http.StatusBadGateway, "backend_unreachable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code, _, _ := classify(tc.err)
			if status != tc.status || code != tc.code {
				t.Fatalf("classify=%d/%s want %d/%s", status, code, tc.status, tc.code)
			}
		})
	}
}

func TestClassifyKeepsFieldErrors(t *testing.T) {
	err := fmt.Errorf("update: %w", &api.HTTPError{StatusCode: 422, ValidationErrors: map[string][]string{"title": {"required"}}})
	_, _, _, fields := classify(err)
	if len(fields["title"]) != 1 || fields["title"][0] != "required" {
		t.Fatalf("fields=%v", fields)
	}
}
