package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hupe1980/chainmesh/agent"
	"github.com/hupe1980/chainmesh/config"
	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/logging"
	"github.com/hupe1980/chainmesh/memory"
	"github.com/hupe1980/chainmesh/model"
	"github.com/hupe1980/chainmesh/model/anthropic"
	"github.com/hupe1980/chainmesh/model/openai"
	"github.com/hupe1980/chainmesh/prompt"
)

// mockFallback is what the mock provider answers once its script runs out.
const mockFallback = "Final Answer: (mock) no scripted response left"

func newModel(cfg config.ModelConfig) (model.ChatModel, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			o.Model = cfg.Name
			o.Temperature = cfg.Temperature
			o.MaxCompletionTokens = cfg.MaxTokens
			o.Timeout = cfg.Timeout
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
		})
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.Model = cfg.Name
			o.Temperature = cfg.Temperature
			o.MaxTokens = cfg.MaxTokens
			o.Timeout = cfg.Timeout
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
		})
	case "mock":
		return model.NewMockModel(cfg.Responses...).WithFallback(mockFallback), nil
	default:
		return nil, core.NewConfigurationError("cli", "model.provider", fmt.Sprintf("unsupported provider %q", cfg.Provider))
	}
}

func newMemory(cfg config.MemoryConfig, m model.ChatModel, logger logging.Logger) (memory.Memory, error) {
	withLogger := func(o *memory.Options) { o.Logger = logger }
	switch cfg.Strategy {
	case config.MemoryWindow:
		return memory.NewWindow(cfg.K, withLogger)
	case config.MemorySummary:
		return memory.NewSummary(m, withLogger)
	default:
		return memory.NewBuffer(withLogger), nil
	}
}

func newGuide(ctx context.Context, cfg config.StyleGuideConfig) (*prompt.Guide, error) {
	if cfg.Path == "" {
		return prompt.NewGuide(ctx, nil)
	}
	return prompt.NewGuide(ctx, prompt.FileSource{Path: cfg.Path})
}

func newAgent(cfg *config.Config, m model.ChatModel, mem memory.Memory, logger logging.Logger) (*agent.Executor, error) {
	tools, err := demoTools()
	if err != nil {
		return nil, err
	}

	var custom *prompt.ChatTemplate
	if cfg.Agent.PromptFile != "" {
		text, err := os.ReadFile(cfg.Agent.PromptFile)
		if err != nil {
			return nil, fmt.Errorf("read agent prompt: %w", err)
		}
		if custom, err = prompt.FromTemplate(string(text)); err != nil {
			return nil, err
		}
	}

	return agent.NewExecutor(m, tools, func(o *agent.Options) {
		o.MaxIterations = cfg.Agent.MaxIterations
		if cfg.Agent.SystemPrompt != "" {
			o.SystemPrompt = cfg.Agent.SystemPrompt
		}
		if custom != nil {
			o.Prompt = custom
		}
		o.Memory = mem
		o.Logger = logger
	})
}
