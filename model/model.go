package model

import (
	"context"
	"fmt"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/runnable"
)

// Info contains metadata about a model implementation.
type Info struct {
	Name        string  `json:"name"`
	Provider    string  `json:"provider"` // "openai", "anthropic", "mock", ...
	Temperature float64 `json:"temperature"`
}

// ChatModel is the chat-model adapter contract: given an ordered sequence of
// messages it returns exactly one assistant message.
//
// Failures are returned as *Error; adapters never embed error payloads in the
// returned message content.
type ChatModel interface {
	Invoke(ctx context.Context, messages []core.Message) (core.Message, error)

	// Info returns information about the model implementation.
	Info() Info
}

// AsRunnable exposes a ChatModel as a pipeline stage. Accepted inputs are
// []core.Message (typically the output of a prompt template), a single
// core.Message, or a string which is sent as one human message.
func AsRunnable(m ChatModel) runnable.Runnable {
	return runnable.Func(func(ctx context.Context, input any) (any, error) {
		if m == nil {
			return nil, core.NewConfigurationError("chat model", "model", "must not be nil")
		}
		var msgs []core.Message
		switch v := input.(type) {
		case []core.Message:
			msgs = v
		case core.Message:
			msgs = []core.Message{v}
		case string:
			msgs = []core.Message{core.HumanMessage(v)}
		default:
			return nil, fmt.Errorf("%w: chat model expects messages, got %T", runnable.ErrInputType, input)
		}
		return m.Invoke(ctx, msgs)
	})
}

// Func adapts a function to ChatModel. Info reports provider "func".
type Func func(ctx context.Context, messages []core.Message) (core.Message, error)

// Invoke calls f(ctx, messages).
func (f Func) Invoke(ctx context.Context, messages []core.Message) (core.Message, error) {
	return f(ctx, messages)
}

// Info implements ChatModel.
func (f Func) Info() Info { return Info{Name: "func", Provider: "func"} }
