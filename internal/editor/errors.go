package editor

import "errors"

var (
	errInvalid = errors.New("validation failed")

	ErrNotLoaded        = errors.New("editor not loaded")
	ErrQuestionNotFound = errors.New("question not found")
	ErrOptionNotFound   = errors.New("option not found")
	ErrOptionPending    = errors.New("option is still being created")
	ErrInvalidMove      = errors.New("invalid move")
)

// IsInvalid reports whether an Outcome error came from local validation.
func IsInvalid(err error) bool { return errors.Is(err, errInvalid) }
