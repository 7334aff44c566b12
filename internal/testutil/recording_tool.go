package testutil

import (
	"context"
	"sync"
)

// RecordingTool is a tool stub that records every input it receives and
// answers through Fn (or echoes the input when Fn is nil). It satisfies
// tool.Tool and is safe for concurrent use.
type RecordingTool struct {
	ToolName        string
	ToolDescription string
	Fn              func(ctx context.Context, input string) (string, error)

	mu     sync.Mutex
	inputs []string
}

// NewRecordingTool creates a RecordingTool.
func NewRecordingTool(name, description string, fn func(ctx context.Context, input string) (string, error)) *RecordingTool {
	return &RecordingTool{ToolName: name, ToolDescription: description, Fn: fn}
}

// Name implements tool.Tool.
func (t *RecordingTool) Name() string { return t.ToolName }

// Description implements tool.Tool.
func (t *RecordingTool) Description() string { return t.ToolDescription }

// Call implements tool.Tool.
func (t *RecordingTool) Call(ctx context.Context, input string) (string, error) {
	t.mu.Lock()
	t.inputs = append(t.inputs, input)
	t.mu.Unlock()
	if t.Fn == nil {
		return input, nil
	}
	return t.Fn(ctx, input)
}

// Inputs returns a copy of the recorded inputs in call order.
func (t *RecordingTool) Inputs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.inputs))
	copy(out, t.inputs)
	return out
}

// CallCount returns how many times Call ran.
func (t *RecordingTool) CallCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inputs)
}
