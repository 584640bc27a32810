package httperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindTooRecent
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTooRecent:
		return "too_recent"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// BusinessError is a typed failure carrying a stable code and a message meant
// for the end user.
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

func Validation(code, message string) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: message}
}

func NotFound(code, message string) error {
	return BusinessError{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) error {
	return BusinessError{Kind: KindConflict, Code: code, Message: message}
}

func TooRecent(code, message string) error {
	return BusinessError{Kind: KindTooRecent, Code: code, Message: message}
}

func Unauthorized(code, message string) error {
	return BusinessError{Kind: KindUnauthorized, Code: code, Message: message}
}

// Internal wraps a store or infrastructure failure. err is logged by the
// HTTP layer and never shown to the caller.
func Internal(code string, err error) error {
	return BusinessError{Kind: KindInternal, Code: code, Message: "Erro interno", Err: err}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf reports the kind of err. Untyped errors are internal.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}

// Retryable reports whether the same request may succeed after a delay.
func Retryable(err error) bool {
	return KindOf(err) == KindTooRecent
}

// MessageOf returns the user-facing message carried by err, if any.
func MessageOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Message
	}
	return ""
}
