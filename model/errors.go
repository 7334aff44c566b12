package model

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrTimeout classifies adapter failures caused by a deadline or timeout.
	ErrTimeout = errors.New("model timeout")
	// ErrTransport classifies every other provider / transport failure.
	ErrTransport = errors.New("model transport error")
)

// Error is the single error type returned by chat-model adapters. Provider
// specific error types stay reachable via errors.As on Err but callers only
// need errors.Is(err, ErrTimeout) / errors.Is(err, ErrTransport).
type Error struct {
	Provider string
	Model    string
	Err      error
}

func (e *Error) Error() string {
	kind := "transport error"
	if e.Timeout() {
		kind = "timeout"
	}
	return fmt.Sprintf("%s model %q %s: %v", e.Provider, e.Model, kind, e.Err)
}

// Unwrap exposes the provider error.
func (e *Error) Unwrap() error { return e.Err }

// Is maps the error onto ErrTimeout or ErrTransport.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Timeout()
	case ErrTransport:
		return !e.Timeout()
	}
	return false
}

// Timeout reports whether the failure was caused by a deadline.
func (e *Error) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// NewError wraps a provider failure. A nil err yields nil.
func NewError(provider, model string, err error) error {
	if err == nil {
		return nil
	}
	var me *Error
	if errors.As(err, &me) {
		return err
	}
	return &Error{Provider: provider, Model: model, Err: err}
}
