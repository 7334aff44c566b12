package memory

import (
	"context"
	"sync"

	"github.com/hupe1980/chainmesh/core"
)

// Buffer stores the entire conversation. Safe for concurrent use.
type Buffer struct {
	opts Options

	mu      sync.RWMutex
	history []core.Message
}

// NewBuffer returns an empty Buffer.
func NewBuffer(optFns ...func(o *Options)) *Buffer {
	return &Buffer{opts: newOptions(optFns)}
}

// LoadMemoryVariables returns a copy of the whole history.
func (b *Buffer) LoadMemoryVariables(context.Context, map[string]any) (map[string][]core.Message, error) {
	return map[string][]core.Message{b.opts.MemoryKey: b.Messages()}, nil
}

// SaveContext appends one human and one assistant message.
func (b *Buffer) SaveContext(_ context.Context, inputs, outputs map[string]any) error {
	human, ai, err := b.opts.exchange(inputs, outputs)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.history = append(b.history, core.HumanMessage(human), core.AssistantMessage(ai))
	b.mu.Unlock()
	return nil
}

// Clear drops the history.
func (b *Buffer) Clear(context.Context) error {
	b.mu.Lock()
	b.history = nil
	b.mu.Unlock()
	return nil
}

// MemoryKey implements Memory.
func (b *Buffer) MemoryKey() string { return b.opts.MemoryKey }

// Messages returns a copy of the stored history.
func (b *Buffer) Messages() []core.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return core.CloneMessages(b.history)
}
