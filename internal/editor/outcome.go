package editor

import (
	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/forms"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

type Toast struct {
	Kind    ToastKind `json:"kind"`
	Message string    `json:"message"`
}

// Outcome is what a submit hands back to the UI: where to go, what to show,
// and which fields to mark.
type Outcome struct {
	Redirect    string            `json:"redirect,omitempty"`
	Toast       *Toast            `json:"toast,omitempty"`
	FieldErrors forms.FieldErrors `json:"fieldErrors,omitempty"`
	Err         error             `json:"-"`
}

func (o Outcome) OK() bool { return o.Err == nil && o.FieldErrors.Empty() }

func success(msg string) Outcome {
	return Outcome{Toast: &Toast{Kind: ToastSuccess, Message: msg}}
}

func invalid(fe forms.FieldErrors) Outcome {
	return Outcome{
		Toast:       &Toast{Kind: ToastError, Message: "Please fix the highlighted fields."},
		FieldErrors: fe,
		Err:         errInvalid,
	}
}

// failure turns a backend error into an error toast plus any server-side
// field errors.
func failure(log *logger.Logger, op string, err error) Outcome {
	log.Warn(op+" failed", "error", err, "status", api.StatusCode(err))
	return Outcome{
		Toast:       &Toast{Kind: ToastError, Message: api.Message(err)},
		FieldErrors: forms.FieldErrors(nil).Merge(api.FieldErrors(err)),
		Err:         err,
	}
}

// SaveEvent describes one successful mutation.
type SaveEvent struct {
	Entity string
	Action string
	ID     string
}
