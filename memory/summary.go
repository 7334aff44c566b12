package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/logging"
	"github.com/hupe1980/chainmesh/model"
)

const (
	summarySystemPrompt = "You are a helpful AI that summarizes conversations."
	summaryUserPrompt   = "Please create a concise summary of the following conversation, " +
		"incorporating the new lines into the existing summary.\n\n" +
		"Current Summary:\n%s\n\nNew Lines:\n%s"
)

// Summary keeps one rolling synopsis instead of a message list. Every
// SaveContext performs exactly one chat-model call that folds the new
// exchange into the synopsis. Saves are serialized.
type Summary struct {
	opts  Options
	model model.ChatModel

	mu      sync.RWMutex
	summary string
}

// NewSummary returns a Summary backed by m.
func NewSummary(m model.ChatModel, optFns ...func(o *Options)) (*Summary, error) {
	if m == nil {
		return nil, core.NewConfigurationError("summary memory", "model", "chat model is required")
	}
	return &Summary{opts: newOptions(optFns), model: m}, nil
}

// LoadMemoryVariables returns one system message holding the synopsis.
func (s *Summary) LoadMemoryVariables(context.Context, map[string]any) (map[string][]core.Message, error) {
	return map[string][]core.Message{s.opts.MemoryKey: {core.SystemMessage(s.Text())}}, nil
}

// SaveContext asks the model to fold the exchange into the synopsis. On
// model failure the previous synopsis is kept and the error is returned.
func (s *Summary) SaveContext(ctx context.Context, inputs, outputs map[string]any) error {
	human, ai, err := s.opts.exchange(inputs, outputs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	newLines := BufferString([]core.Message{core.HumanMessage(human), core.AssistantMessage(ai)})
	prompt := []core.Message{
		core.SystemMessage(summarySystemPrompt),
		core.HumanMessage(fmt.Sprintf(summaryUserPrompt, s.summary, newLines)),
	}

	start := time.Now()
	resp, err := s.model.Invoke(ctx, prompt)
	logging.LogModelCall(s.opts.Logger, s.model.Info().Name, len(prompt), time.Since(start), err)
	if err != nil {
		return fmt.Errorf("update summary: %w", err)
	}
	s.summary = resp.Content
	return nil
}

// Clear resets the synopsis.
func (s *Summary) Clear(context.Context) error {
	s.mu.Lock()
	s.summary = ""
	s.mu.Unlock()
	return nil
}

// MemoryKey implements Memory.
func (s *Summary) MemoryKey() string { return s.opts.MemoryKey }

// Text returns the current synopsis.
func (s *Summary) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}
