package runnable

import (
	"context"
	"errors"
	"fmt"
)

// ErrInputType is returned when a stage receives an input of a type it cannot handle.
var ErrInputType = errors.New("unexpected input type")

// Runnable is a composable transform.
type Runnable interface {
	Invoke(ctx context.Context, input any) (any, error)
}

// Func adapts an ordinary function to the Runnable interface.
type Func func(ctx context.Context, input any) (any, error)

// Invoke calls f(ctx, input).
func (f Func) Invoke(ctx context.Context, input any) (any, error) { return f(ctx, input) }

// Lambda wraps a typed function. The input is type-asserted to I; a mismatch
// yields an error wrapping ErrInputType.
func Lambda[I, O any](fn func(ctx context.Context, input I) (O, error)) Runnable {
	return Func(func(ctx context.Context, input any) (any, error) {
		in, ok := input.(I)
		if !ok {
			var zero I
			return nil, fmt.Errorf("%w: want %T, got %T", ErrInputType, zero, input)
		}
		return fn(ctx, in)
	})
}

// InvokeAs invokes r and asserts the output to O.
func InvokeAs[O any](ctx context.Context, r Runnable, input any) (O, error) {
	var zero O
	out, err := r.Invoke(ctx, input)
	if err != nil {
		return zero, err
	}
	v, ok := out.(O)
	if !ok {
		return zero, fmt.Errorf("%w: want output %T, got %T", ErrInputType, zero, out)
	}
	return v, nil
}
