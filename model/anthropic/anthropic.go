// Package anthropic provides a model.ChatModel for the Anthropic Claude
// Messages API.
package anthropic

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/model"
)

const providerName = "anthropic"

// Options configures the Anthropic model adapter (model id, temperature,
// max tokens, API key, timeout).
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	APIKey      string
	BaseURL     string
	// Timeout bounds a single Invoke call. Zero means no adapter deadline.
	Timeout    time.Duration
	MaxRetries int
}

// Model wraps the Anthropic Messages API behind model.ChatModel.
type Model struct {
	client *anthropic.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{
		Model:       string(anthropic.ModelClaude3_5Sonnet20241022),
		Temperature: 0.7,
		MaxTokens:   4096,
		Timeout:     60 * time.Second,
	}
}

// NewModel creates a new Anthropic model using the official client.
func NewModel(optFns ...func(o *Options)) (*Model, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	clientOpts := []option.RequestOption{option.WithMaxRetries(opts.MaxRetries)}
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := anthropic.NewClient(clientOpts...)

	return newModel(&client, opts)
}

// NewModelFromClient creates a new Anthropic model from an existing client.
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) (*Model, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return newModel(client, opts)
}

func newModel(client *anthropic.Client, opts Options) (*Model, error) {
	if opts.Model == "" {
		return nil, core.NewConfigurationError("anthropic", "model", "model identity is required")
	}
	if opts.MaxTokens <= 0 {
		return nil, core.NewConfigurationError("anthropic", "max_tokens", "must be positive")
	}
	if client == nil {
		return nil, core.NewConfigurationError("anthropic", "client", "client is required")
	}
	return &Model{client: client, opts: opts}, nil
}

// Invoke implements model.ChatModel. System messages are lifted into the
// request's system prompt; the remaining messages keep their order.
func (m *Model) Invoke(ctx context.Context, messages []core.Message) (core.Message, error) {
	if m.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.Timeout)
		defer cancel()
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(m.opts.Model),
		Messages:    buildMessages(messages),
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}
	if system := extractSystem(messages); len(system) > 0 {
		params.System = system
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return core.Message{}, model.NewError(providerName, m.opts.Model, err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	if sb.Len() == 0 {
		return core.Message{}, model.NewError(providerName, m.opts.Model, errors.New("empty response content"))
	}
	return core.AssistantMessage(sb.String()), nil
}

func buildMessages(messages []core.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case core.RoleSystem:
			continue
		case core.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return out
}

func extractSystem(messages []core.Message) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	for _, msg := range messages {
		if msg.Role == core.RoleSystem && msg.Content != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: msg.Content})
		}
	}
	return blocks
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:        m.opts.Model,
		Provider:    providerName,
		Temperature: m.opts.Temperature,
	}
}
