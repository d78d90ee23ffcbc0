package videos

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUploadFailed        = errors.New("upload failed")
	ErrMetadataWriteFailed = errors.New("metadata write failed")
	ErrNotFound            = errors.New("not found")
	ErrDeleteFailed        = errors.New("delete failed")
	ErrRemoteUnavailable   = errors.New("remote unavailable")
)

// Input causes, reported under ErrInvalidInput. The HTTP edge reuses them for
// its own request validation.
var (
	ErrNoFile           = errors.New("no video file uploaded")
	ErrCategoryRequired = errors.New("category (expression type) is required")
	ErrInvalidCategory  = errors.New("invalid category")
)

var (
	errIDRequired       = errors.New("video id is required")
	errUserRequired     = errors.New("user id is required")
	errEmptyReference   = errors.New("blob store returned an empty reference")
	errVideoNotFound    = errors.New("video not found")
)

// Error is returned by every Service operation. Kind is one of the Err*
// values above; Err is the underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Cause returns the underlying error message, or the kind when there is none.
func (e *Error) Cause() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Err.Error()
}

func newError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}
