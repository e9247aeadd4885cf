package types

import (
	"errors"
	"fmt"
)

// Store operation errors. Store implementations return these sentinels
// so callers can branch without string matching.
var (
	ErrPackageNotFound    = errors.New("package not found")
	ErrVersionNotFound    = errors.New("version not found")
	ErrVersionExists      = errors.New("version already exists")
	ErrBlobNotFound       = errors.New("blob not found")
	ErrBlobExists         = errors.New("blob already exists")
	ErrInvalidPackageName = errors.New("invalid package name")
)

// Kind classifies a registry error for machine consumption. Every
// user-visible error carries exactly one kind plus a human-readable
// message; internal identifiers never leak.
type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindGone            Kind = "gone"
	KindStorage         Kind = "storage_failure"
)

// Error is a classified registry error. It wraps an optional cause so
// errors.Is still sees the underlying sentinel.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E constructs a classified error with a formatted message.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs a classified error around a cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or KindStorage if err carries no
// classification. Errors from store sentinels map to their natural
// kinds even when not wrapped in an *Error.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	switch {
	case errors.Is(err, ErrPackageNotFound), errors.Is(err, ErrVersionNotFound), errors.Is(err, ErrBlobNotFound):
		return KindNotFound
	case errors.Is(err, ErrVersionExists), errors.Is(err, ErrBlobExists):
		return KindConflict
	case errors.Is(err, ErrInvalidPackageName):
		return KindInvalidInput
	}
	return KindStorage
}
