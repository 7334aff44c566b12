package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/logging"
)

// ErrMissingKey is returned when inputs or outputs lack the configured key.
var ErrMissingKey = errors.New("memory key missing")

// Default keys.
const (
	DefaultInputKey  = "input"
	DefaultOutputKey = "output"
	DefaultMemoryKey = "history"
)

// Memory keeps conversation history between turns.
type Memory interface {
	// LoadMemoryVariables returns the recovered history under MemoryKey.
	LoadMemoryVariables(ctx context.Context, inputs map[string]any) (map[string][]core.Message, error)

	// SaveContext records one human/assistant exchange.
	SaveContext(ctx context.Context, inputs, outputs map[string]any) error

	// Clear drops all stored history.
	Clear(ctx context.Context) error

	// MemoryKey is the variable name the history is exposed under.
	MemoryKey() string
}

// Options configure every memory strategy.
type Options struct {
	InputKey  string
	OutputKey string
	MemoryKey string
	Logger    logging.Logger
}

func newOptions(optFns []func(o *Options)) Options {
	opts := Options{
		InputKey:  DefaultInputKey,
		OutputKey: DefaultOutputKey,
		MemoryKey: DefaultMemoryKey,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return opts
}

// exchange extracts the human input and assistant output of one turn.
func (o Options) exchange(inputs, outputs map[string]any) (string, string, error) {
	in, ok := inputs[o.InputKey]
	if !ok {
		return "", "", fmt.Errorf("%w: input key %q", ErrMissingKey, o.InputKey)
	}
	out, ok := outputs[o.OutputKey]
	if !ok {
		return "", "", fmt.Errorf("%w: output key %q", ErrMissingKey, o.OutputKey)
	}
	return text(in), text(out), nil
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case core.Message:
		return t.Content
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
