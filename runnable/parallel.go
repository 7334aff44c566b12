package runnable

import (
	"context"
	"fmt"
	"sort"

	"github.com/hupe1980/chainmesh/core"
)

// Branch binds an output key to a Runnable in a Parallel fan-out.
type Branch struct {
	Key      string
	Runnable Runnable
}

// Parallel applies every branch to the same input and merges the results
// into a map keyed by branch key.
type Parallel struct {
	branches []Branch
}

// NewParallel builds a Parallel. Keys must be non-empty and unique.
func NewParallel(branches ...Branch) (*Parallel, error) {
	if len(branches) == 0 {
		return nil, core.NewConfigurationError("parallel", "branches", "at least one branch is required")
	}
	seen := make(map[string]struct{}, len(branches))
	for _, b := range branches {
		if b.Key == "" {
			return nil, core.NewConfigurationError("parallel", "key", "branch key must not be empty")
		}
		if b.Runnable == nil {
			return nil, core.NewConfigurationError("parallel", "branches", fmt.Sprintf("branch %q is nil", b.Key))
		}
		if _, dup := seen[b.Key]; dup {
			return nil, core.NewConfigurationError("parallel", "key", fmt.Sprintf("duplicate branch key %q", b.Key))
		}
		seen[b.Key] = struct{}{}
	}
	cp := make([]Branch, len(branches))
	copy(cp, branches)
	return &Parallel{branches: cp}, nil
}

// ParallelFromMap builds a Parallel from a map. Branches are evaluated in
// sorted key order.
func ParallelFromMap(m map[string]Runnable) (*Parallel, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	branches := make([]Branch, 0, len(keys))
	for _, k := range keys {
		branches = append(branches, Branch{Key: k, Runnable: m[k]})
	}
	return NewParallel(branches...)
}

// MustParallel is like NewParallel but panics on misconfiguration.
func MustParallel(branches ...Branch) *Parallel {
	p, err := NewParallel(branches...)
	if err != nil {
		panic(err)
	}
	return p
}

// Invoke evaluates the branches sequentially in insertion order and returns
// a map[string]any with exactly one entry per branch.
func (p *Parallel) Invoke(ctx context.Context, input any) (any, error) {
	out := make(map[string]any, len(p.branches))
	for _, b := range p.branches {
		v, err := b.Runnable.Invoke(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("parallel execution failed at branch %s: %w", b.Key, err)
		}
		out[b.Key] = v
	}
	return out, nil
}

// Keys returns the branch keys in evaluation order.
func (p *Parallel) Keys() []string {
	keys := make([]string, len(p.branches))
	for i, b := range p.branches {
		keys[i] = b.Key
	}
	return keys
}
