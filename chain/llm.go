package chain

import (
	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/model"
	"github.com/hupe1980/chainmesh/parser"
	"github.com/hupe1980/chainmesh/prompt"
	"github.com/hupe1980/chainmesh/runnable"
)

// NewLLM builds the canonical prompt -> model -> text pipeline.
func NewLLM(p *prompt.ChatTemplate, m model.ChatModel) (*runnable.Sequence, error) {
	if p == nil {
		return nil, core.NewConfigurationError("llm chain", "prompt", "must not be nil")
	}
	if m == nil {
		return nil, core.NewConfigurationError("llm chain", "model", "must not be nil")
	}
	return runnable.NewSequence(p, model.AsRunnable(m), parser.NewStrOutputParser())
}
