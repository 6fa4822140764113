package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoData is returned when a 2xx response has no "data" member.
var ErrNoData = errors.New("No data returned from server")

// ErrMarkCorrectUnsupported means the backend has no atomic mark-correct endpoint.
var ErrMarkCorrectUnsupported = errors.New("mark-correct endpoint not supported")

type HTTPError struct {
	StatusCode       int
	Message          string
	ValidationErrors map[string][]string
	Body             string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if msg == "" {
		msg = "http error"
	}
	return fmt.Sprintf("http error: status=%d message=%s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }

func parseHTTPError(status int, raw []byte) error {
	herr := &HTTPError{StatusCode: status, Body: strings.TrimSpace(string(raw))}

	var env struct {
		Message string          `json:"message"`
		Errors  json.RawMessage `json:"errors"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return herr
	}
	herr.Message = strings.TrimSpace(env.Message)
	if herr.Message == "" && len(env.Error) > 0 {
		var s string
		if json.Unmarshal(env.Error, &s) == nil {
			herr.Message = strings.TrimSpace(s)
		} else {
			var obj struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(env.Error, &obj) == nil {
				herr.Message = strings.TrimSpace(obj.Message)
			}
		}
	}
	herr.ValidationErrors = parseValidationErrors(env.Errors)
	return herr
}

// parseValidationErrors accepts {"field": ["msg"]} and {"field": "msg"}.
func parseValidationErrors(raw json.RawMessage) map[string][]string {
	if len(raw) == 0 {
		return nil
	}
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil || len(generic) == 0 {
		return nil
	}
	out := make(map[string][]string, len(generic))
	for field, v := range generic {
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			if len(list) > 0 {
				out[field] = list
			}
			continue
		}
		var one string
		if err := json.Unmarshal(v, &one); err == nil && one != "" {
			out[field] = []string{one}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// FieldErrors extracts server-side validation errors from any wrapped error.
func FieldErrors(err error) map[string][]string {
	var herr *HTTPError
	if errors.As(err, &herr) {
		return herr.ValidationErrors
	}
	return nil
}

// StatusCode returns the backend status carried by err, or 0.
func StatusCode(err error) int {
	var herr *HTTPError
	if errors.As(err, &herr) {
		return herr.StatusCode
	}
	return 0
}

// Message is the human-facing text for a failure, suitable for a toast.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var herr *HTTPError
	if errors.As(err, &herr) && strings.TrimSpace(herr.Message) != "" {
		return herr.Message
	}
	if errors.Is(err, ErrNoData) {
		return ErrNoData.Error()
	}
	return "Something went wrong. Please try again."
}
