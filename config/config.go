// Package config loads chainmesh runtime settings from YAML. Values of the
// form ${VAR} are expanded from the environment before decoding.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/logging"
)

// Memory strategies.
const (
	MemoryBuffer  = "buffer"
	MemoryWindow  = "window"
	MemorySummary = "summary"
)

// Config is the root configuration document.
type Config struct {
	Model      ModelConfig      `yaml:"model"`
	Agent      AgentConfig      `yaml:"agent"`
	Memory     MemoryConfig     `yaml:"memory"`
	Retriever  RetrieverConfig  `yaml:"retriever"`
	Logging    LoggingConfig    `yaml:"logging"`
	StyleGuide StyleGuideConfig `yaml:"style_guide"`
}

// ModelConfig selects and tunes the chat model.
type ModelConfig struct {
	// Provider is one of openai, anthropic or mock.
	Provider    string        `yaml:"provider"`
	Name        string        `yaml:"name"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int64         `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	// Responses script the mock provider.
	Responses []string `yaml:"responses"`
}

// AgentConfig tunes the ReAct executor.
type AgentConfig struct {
	MaxIterations int    `yaml:"max_iterations"`
	SystemPrompt  string `yaml:"system_prompt"`
	// PromptFile optionally replaces the default ReAct template.
	PromptFile string `yaml:"prompt_file"`
}

// MemoryConfig selects the conversational memory strategy.
type MemoryConfig struct {
	Strategy string `yaml:"strategy"`
	K        int    `yaml:"k"`
}

// RetrieverConfig tunes document splitting and retrieval.
type RetrieverConfig struct {
	K            int `yaml:"k"`
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StyleGuideConfig points at a YAML style sheet.
type StyleGuideConfig struct {
	Path string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Provider:    "openai",
			Name:        "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   1024,
			Timeout:     60 * time.Second,
		},
		Agent:     AgentConfig{MaxIterations: 5},
		Memory:    MemoryConfig{Strategy: MemoryBuffer, K: 3},
		Retriever: RetrieverConfig{K: 4, ChunkSize: 1000, ChunkOverlap: 200},
		Logging:   LoggingConfig{Level: "info", Format: "tint"},
	}
}

// Load reads path on top of the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no component could be built from.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Model.Provider) {
	case "openai", "anthropic", "mock":
	default:
		return core.NewConfigurationError("config", "model.provider", fmt.Sprintf("unsupported provider %q", c.Model.Provider))
	}
	if c.Model.Name == "" {
		return core.NewConfigurationError("config", "model.name", "must not be empty")
	}
	if c.Agent.MaxIterations <= 0 {
		return core.NewConfigurationError("config", "agent.max_iterations", "must be positive")
	}
	switch c.Memory.Strategy {
	case MemoryBuffer, MemorySummary:
	case MemoryWindow:
		if c.Memory.K <= 0 {
			return core.NewConfigurationError("config", "memory.k", "must be positive for window memory")
		}
	default:
		return core.NewConfigurationError("config", "memory.strategy", fmt.Sprintf("unknown strategy %q", c.Memory.Strategy))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return core.NewConfigurationError("config", "logging.level", err.Error())
	}
	return nil
}

// LoggerConfig converts the logging section into a logging.LoggerConfig.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	lc := logging.DefaultLoggerConfig()
	lc.Level, _ = logging.ParseLevel(c.Logging.Level)
	if c.Logging.Format != "" {
		lc.Format = c.Logging.Format
	}
	return lc
}
