package runnable

import (
	"context"
	"fmt"
)

type passthrough struct{}

func (passthrough) Invoke(_ context.Context, input any) (any, error) { return input, nil }

// Passthrough returns the identity Runnable. It is typically used as a
// Parallel branch to forward the original input next to transformed values.
func Passthrough() Runnable { return passthrough{} }

// Pick returns a Runnable selecting key from a map[string]any input.
func Pick(key string) Runnable {
	return Lambda(func(_ context.Context, in map[string]any) (any, error) {
		v, ok := in[key]
		if !ok {
			return nil, fmt.Errorf("pick: key %q not present", key)
		}
		return v, nil
	})
}
