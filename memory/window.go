package memory

import (
	"context"
	"sync"

	"github.com/hupe1980/chainmesh/core"
)

// Window keeps only the last k human/assistant turns (2·k messages).
type Window struct {
	opts Options
	k    int

	mu      sync.RWMutex
	history []core.Message
}

// NewWindow returns an empty Window. k must be positive.
func NewWindow(k int, optFns ...func(o *Options)) (*Window, error) {
	if k <= 0 {
		return nil, core.NewConfigurationError("window memory", "k", "must be positive")
	}
	return &Window{opts: newOptions(optFns), k: k}, nil
}

// K returns the number of turns kept.
func (w *Window) K() int { return w.k }

// LoadMemoryVariables returns a copy of the stored, already trimmed history.
func (w *Window) LoadMemoryVariables(context.Context, map[string]any) (map[string][]core.Message, error) {
	return map[string][]core.Message{w.opts.MemoryKey: w.Messages()}, nil
}

// SaveContext appends the exchange and trims to the last 2·k messages.
func (w *Window) SaveContext(_ context.Context, inputs, outputs map[string]any) error {
	human, ai, err := w.opts.exchange(inputs, outputs)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.history = append(w.history, core.HumanMessage(human), core.AssistantMessage(ai))
	if limit := 2 * w.k; len(w.history) > limit {
		trimmed := make([]core.Message, limit)
		copy(trimmed, w.history[len(w.history)-limit:])
		w.history = trimmed
		w.opts.Logger.Debug("memory.window.trimmed", "k", w.k)
	}
	return nil
}

// Clear drops the history.
func (w *Window) Clear(context.Context) error {
	w.mu.Lock()
	w.history = nil
	w.mu.Unlock()
	return nil
}

// MemoryKey implements Memory.
func (w *Window) MemoryKey() string { return w.opts.MemoryKey }

// Messages returns a copy of the stored history.
func (w *Window) Messages() []core.Message {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return core.CloneMessages(w.history)
}
