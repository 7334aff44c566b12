package runnable

import (
	"context"
	"fmt"

	"github.com/hupe1980/chainmesh/core"
)

// Sequence pipes the output of each step into the next.
type Sequence struct {
	steps []Runnable
}

// NewSequence builds a Sequence from at least one step. Nil steps are rejected.
func NewSequence(steps ...Runnable) (*Sequence, error) {
	if len(steps) == 0 {
		return nil, core.NewConfigurationError("sequence", "steps", "at least one step is required")
	}
	for i, s := range steps {
		if s == nil {
			return nil, core.NewConfigurationError("sequence", "steps", fmt.Sprintf("step %d is nil", i))
		}
	}
	cp := make([]Runnable, len(steps))
	copy(cp, steps)
	return &Sequence{steps: cp}, nil
}

// MustSequence is like NewSequence but panics on misconfiguration.
func MustSequence(steps ...Runnable) *Sequence {
	s, err := NewSequence(steps...)
	if err != nil {
		panic(err)
	}
	return s
}

// Invoke runs every step in order. The first failing step aborts the
// sequence; no partial result is returned.
func (s *Sequence) Invoke(ctx context.Context, input any) (any, error) {
	cur := input
	for i, step := range s.steps {
		out, err := step.Invoke(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("sequence execution failed at step %d: %w", i, err)
		}
		cur = out
	}
	return cur, nil
}

// Steps returns a copy of the child steps.
func (s *Sequence) Steps() []Runnable {
	cp := make([]Runnable, len(s.steps))
	copy(cp, s.steps)
	return cp
}
