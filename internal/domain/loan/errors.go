package loan

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("loan not found")
	ErrInvalidState     = errors.New("invalid loan state")
	ErrDuplicateID      = errors.New("duplicate loan id")
	ErrUndefinedPayment = errors.New("monthly payment is undefined")
)

// Error carries a client-facing message while still matching its kind
// through errors.Is.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
