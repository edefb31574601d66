package service

import "errors"

var (
	// ErrUpstream marks storage failures. Handlers answer with a generic 500.
	ErrUpstream     = errors.New("upstream failure")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDisabled     = errors.New("feature disabled")
)

// InputError carries a client-facing validation message and matches
// ErrInvalidInput under errors.Is.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(msg string) error {
	return &InputError{Msg: msg}
}
