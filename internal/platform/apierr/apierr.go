package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is what the BFF boundary turns every failure into before rendering it.
type Error struct {
	Status      int
	Code        string
	Err         error
	FieldErrors map[string][]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(err error, fields map[string][]string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Code: "validation_failed", Err: err, FieldErrors: fields}
}

// As unwraps err into an *Error, falling back to a 500 wrapper.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(http.StatusInternalServerError, "internal", err)
}
