package dispatch

import (
	"errors"
	"time"
)

var (
	ErrEmptyCommand = errors.New("empty command")
	ErrUsage        = errors.New("usage")
	ErrThrottled    = errors.New("too many commands")
	ErrInputTimeout = errors.New("timed out waiting for input")
	ErrInputClosed  = errors.New("input closed")
)

// RetryError carrega a espera recomendada junto com o erro.
type RetryError struct {
	Err        error
	RetryAfter time.Duration
}

func (e *RetryError) Error() string {
	return e.Err.Error() + ", retry in " + formatWait(e.RetryAfter)
}

func (e *RetryError) Unwrap() error { return e.Err }
