package apperror

import "errors"

// Kind classifies an error for callers that only care about the category.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindInvalidArgument Kind = "invalid_argument"
	KindInvalidState    Kind = "invalid_state"
	KindUnexpected      Kind = "unexpected"
)

// Error is a domain error carrying its kind.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is makes every domain error match the bare sentinel of its kind, so
// errors.Is(advance.ErrAdvanceNotFound, apperror.ErrNotFound) holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" {
		return t.Kind == e.Kind
	}
	return t == e
}

var (
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrInvalidState    = &Error{Kind: KindInvalidState}
	ErrUnexpected      = &Error{Kind: KindUnexpected}
)

// New creates a domain error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf reports the kind of err. Errors implementing InvalidArgumenter (such
// as validation errors) are InvalidArgument, anything unknown is Unexpected.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	var ia InvalidArgumenter
	if errors.As(err, &ia) && ia.InvalidArgument() {
		return KindInvalidArgument
	}
	return KindUnexpected
}

// InvalidArgumenter is implemented by error types that describe malformed input.
type InvalidArgumenter interface {
	InvalidArgument() bool
}
