package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalid  = errors.New("invalid")
	ErrTooMany  = errors.New("too many requests")
	ErrInternal = errors.New("internal")

	ErrTooShort            = fmt.Errorf("%w: text too short", ErrInvalid)
	ErrUnsupportedLanguage = fmt.Errorf("%w: unsupported language", ErrInvalid)
)

// DetailError carries a message safe to show to the caller next to the
// sentinel it belongs to.
type DetailError struct {
	Kind   error
	Detail string
}

func (e *DetailError) Error() string {
	return e.Detail
}

func (e *DetailError) Unwrap() error {
	return e.Kind
}

func Invalid(detail string) error {
	return &DetailError{Kind: ErrInvalid, Detail: detail}
}

func TooShort(detail string) error {
	return &DetailError{Kind: ErrTooShort, Detail: detail}
}

func UnsupportedLanguage(detail string) error {
	return &DetailError{Kind: ErrUnsupportedLanguage, Detail: detail}
}

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

// Detail returns the caller facing message of err, or fallback when err
// does not carry one.
func Detail(err error, fallback string) string {
	var de *DetailError
	if errors.As(err, &de) && de.Detail != "" {
		return de.Detail
	}
	return fallback
}
