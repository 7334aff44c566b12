// Package openai provides an implementation of model.ChatModel using the
// OpenAI Chat Completions API. It converts chainmesh messages into the SDK's
// message format and translates every SDK failure into a *model.Error.
package openai

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const providerName = "openai"

// Options configure the OpenAI model adapter.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	// Timeout bounds a single Invoke call. Zero means no adapter deadline.
	Timeout time.Duration
	APIKey  string
	BaseURL string
	// MaxRetries is handed to the SDK client. Zero disables SDK retries.
	MaxRetries int
}

// Model wraps the OpenAI Chat Completions API behind model.ChatModel.
type Model struct {
	client *openai.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
		Timeout:             60 * time.Second,
	}
}

// NewModel creates a new OpenAI model using the official client. The API key
// falls back to the OPENAI_API_KEY environment variable when not set.
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
	client := openai.NewClient(clientOpts...)

	return newModel(&client, opts)
}

// NewModelFromClient creates a new OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) (*Model, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return newModel(client, opts)
}

func newModel(client *openai.Client, opts Options) (*Model, error) {
	if opts.Model == "" {
		return nil, core.NewConfigurationError("openai", "model", "model identity is required")
	}
	if client == nil {
		return nil, core.NewConfigurationError("openai", "client", "client is required")
	}
	return &Model{client: client, opts: opts}, nil
}

// Invoke implements model.ChatModel.
func (m *Model) Invoke(ctx context.Context, messages []core.Message) (core.Message, error) {
	if m.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.Timeout)
		defer cancel()
	}

	resp, err := m.client.Chat.Completions.New(ctx, m.buildParams(messages))
	if err != nil {
		return core.Message{}, model.NewError(providerName, m.opts.Model, err)
	}
	if len(resp.Choices) == 0 {
		return core.Message{}, model.NewError(providerName, m.opts.Model, errors.New("no choices returned"))
	}
	return core.AssistantMessage(resp.Choices[0].Message.Content), nil
}

// buildParams assembles the OpenAI request parameters.
func (m *Model) buildParams(messages []core.Message) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Messages:            toOpenAIMessages(messages),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}
}

// toOpenAIMessages converts messages preserving their order.
func toOpenAIMessages(messages []core.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case core.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case core.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:        m.opts.Model,
		Provider:    providerName,
		Temperature: m.opts.Temperature,
	}
}
