// Package chain provides ready-made pipelines built from prompt, model,
// parser and memory components.
package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/logging"
	"github.com/hupe1980/chainmesh/memory"
	"github.com/hupe1980/chainmesh/model"
	"github.com/hupe1980/chainmesh/prompt"
	"github.com/hupe1980/chainmesh/runnable"
)

// DefaultConversationSystemPrompt is the system message of the default prompt.
const DefaultConversationSystemPrompt = "You are a helpful assistant."

// ConversationOptions configure a Conversation.
type ConversationOptions struct {
	// Prompt must reference InputKey and may place the history with a
	// Placeholder named after the memory key.
	Prompt   *prompt.ChatTemplate
	Memory   memory.Memory
	InputKey string
	// OutputKey names the reply in the outputs handed to Memory.SaveContext.
	OutputKey string
	Logger    logging.Logger
}

// Conversation is a multi-turn chat: load memory, format the prompt, call the
// model, return the reply text and save the exchange.
type Conversation struct {
	model model.ChatModel
	opts  ConversationOptions
}

// NewConversation builds a Conversation. Memory defaults to an unbounded Buffer.
func NewConversation(m model.ChatModel, optFns ...func(o *ConversationOptions)) (*Conversation, error) {
	opts := ConversationOptions{
		InputKey:  memory.DefaultInputKey,
		OutputKey: memory.DefaultOutputKey,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	if m == nil {
		return nil, core.NewConfigurationError("conversation", "model", "chat model is required")
	}
	if opts.Memory == nil {
		opts.Memory = memory.NewBuffer()
	}
	if opts.Prompt == nil {
		p, err := prompt.NewChatTemplate(
			prompt.System(DefaultConversationSystemPrompt),
			prompt.OptionalPlaceholder(opts.Memory.MemoryKey()),
			prompt.Human(fmt.Sprintf("{{.%s}}", opts.InputKey)),
		)
		if err != nil {
			return nil, err
		}
		opts.Prompt = p
	}
	return &Conversation{model: m, opts: opts}, nil
}

// Memory returns the conversation memory.
func (c *Conversation) Memory() memory.Memory { return c.opts.Memory }

// Predict runs one turn for a plain text input.
func (c *Conversation) Predict(ctx context.Context, input string) (string, error) {
	return c.Call(ctx, map[string]any{c.opts.InputKey: input})
}

// Call runs one turn. inputs must contain InputKey.
func (c *Conversation) Call(ctx context.Context, inputs map[string]any) (string, error) {
	if _, ok := inputs[c.opts.InputKey]; !ok {
		return "", fmt.Errorf("%w: input key %q", memory.ErrMissingKey, c.opts.InputKey)
	}
	runID := core.NewID()

	history, err := c.opts.Memory.LoadMemoryVariables(ctx, inputs)
	if err != nil {
		return "", fmt.Errorf("load conversation memory: %w", err)
	}
	vars := make(map[string]any, len(inputs)+len(history))
	for k, v := range inputs {
		vars[k] = v
	}
	for k, v := range history {
		vars[k] = v
	}

	msgs, err := c.opts.Prompt.Format(vars)
	if err != nil {
		return "", fmt.Errorf("conversation prompt: %w", err)
	}

	start := time.Now()
	reply, err := c.model.Invoke(ctx, msgs)
	logging.LogModelCall(c.opts.Logger, c.model.Info().Name, len(msgs), time.Since(start), err)
	if err != nil {
		return "", err
	}

	if err := c.opts.Memory.SaveContext(ctx, inputs, map[string]any{c.opts.OutputKey: reply.Content}); err != nil {
		return "", fmt.Errorf("save conversation memory: %w", err)
	}
	c.opts.Logger.Debug("conversation.turn.completed", "run_id", runID)
	return reply.Content, nil
}

// Invoke implements runnable.Runnable for string or map inputs.
func (c *Conversation) Invoke(ctx context.Context, input any) (any, error) {
	switch v := input.(type) {
	case string:
		return c.Predict(ctx, v)
	case map[string]any:
		return c.Call(ctx, v)
	default:
		return nil, fmt.Errorf("%w: conversation expects string or map[string]any, got %T", runnable.ErrInputType, input)
	}
}
