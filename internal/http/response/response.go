package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/editor"
	"github.com/yungbote/lesson-admin/internal/pagination"
	"github.com/yungbote/lesson-admin/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error       APIError            `json:"error"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr maps any failure to the error envelope. Backend 4xx statuses pass
// through; other backend failures become 502.
func RespondErr(c *gin.Context, err error) {
	status, code, msg, fields := classify(err)
	c.JSON(status, ErrorEnvelope{
		Error:       APIError{Message: msg, Code: code},
		FieldErrors: fields,
	})
}

func classify(err error) (int, string, string, map[string][]string) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae.Status, ae.Code, ae.Error(), ae.FieldErrors
	}
	if errors.Is(err, context.Canceled) {
		return 499, "canceled", "request canceled", nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "backend_timeout", "backend did not respond in time", nil
	}
	if errors.Is(err, api.ErrNoData) {
		return http.StatusBadGateway, "no_data", api.ErrNoData.Error(), nil
	}
	if st := api.StatusCode(err); st > 0 {
		if st >= 400 && st < 500 {
			code := "backend_rejected"
			if st == http.StatusUnprocessableEntity {
				code = "validation_failed"
			}
			return st, code, api.Message(err), api.FieldErrors(err)
		}
		return http.StatusBadGateway, "backend_error", api.Message(err), nil
	}
	return http.StatusBadGateway, "backend_unreachable", api.Message(err), nil
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// ListEnvelope is a page of items plus the pager state the UI renders.
type ListEnvelope[T any] struct {
	Data        []T              `json:"data"`
	Pagination  pagination.State `json:"pagination"`
	PerPage     int              `json:"perPage"`
	NextPageURL string           `json:"nextPageUrl,omitempty"`
}

func RespondPage[T any](c *gin.Context, p api.Page[T]) {
	c.JSON(http.StatusOK, ListEnvelope[T]{
		Data:        p.Items,
		Pagination:  pagination.New(p.CurrentPage, p.LastPage, nil).State(),
		PerPage:     p.PerPage,
		NextPageURL: p.NextPageURL,
	})
}

// OutcomeEnvelope carries an editor outcome plus the resulting state.
type OutcomeEnvelope struct {
	OK          bool                `json:"ok"`
	Redirect    string              `json:"redirect,omitempty"`
	Toast       *editor.Toast       `json:"toast,omitempty"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
	Data        any                 `json:"data,omitempty"`
}

// RespondOutcome renders an editor outcome. Field errors give 422; other
// failures use the status RespondErr would pick.
func RespondOutcome(c *gin.Context, out editor.Outcome, data any) {
	env := OutcomeEnvelope{
		OK:          out.OK(),
		Redirect:    out.Redirect,
		Toast:       out.Toast,
		FieldErrors: out.FieldErrors,
	}
	if env.OK {
		env.Data = data
		c.JSON(http.StatusOK, env)
		return
	}
	status := http.StatusUnprocessableEntity
	if len(out.FieldErrors) == 0 && out.Err != nil {
		status, _, _, _ = classify(out.Err)
		if errors.Is(out.Err, editor.ErrQuestionNotFound) || errors.Is(out.Err, editor.ErrOptionNotFound) {
			status = http.StatusNotFound
		}
		if errors.Is(out.Err, editor.ErrOptionPending) {
			status = http.StatusConflict
		}
	}
	c.JSON(status, env)
}
