package domain

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("domain already exists")
	ErrNotFound     = errors.New("domain not found")
	ErrGone         = errors.New("domain expired")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("not available")
)

// Error pairs a taxonomy sentinel with the message shown to the client.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Kind }

func Errorf(kind error, detail string) error {
	return &Error{Kind: kind, Detail: detail}
}
