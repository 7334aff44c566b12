// Package evaluation scores a runnable against a dataset of cases.
package evaluation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/chainmesh/core"
)

// Case is one dataset entry. Inputs are passed to the runnable under test;
// EvalArgs are handed to the evaluator together with the produced output.
type Case struct {
	Name     string         `yaml:"name" json:"name"`
	Inputs   map[string]any `yaml:"inputs" json:"inputs"`
	EvalArgs map[string]any `yaml:"eval_args" json:"eval_args"`
}

// Dataset is an ordered list of cases.
type Dataset []Case

type datasetFile struct {
	Cases Dataset `yaml:"cases"`
}

// ParseDataset decodes a YAML dataset. Both a top-level list and a
// document with a "cases" key are accepted.
func ParseDataset(data []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err == nil {
		return ds, nil
	}
	var f datasetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	return f.Cases, nil
}

// LoadDataset reads a YAML dataset from path.
func LoadDataset(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return ParseDataset(data)
}

// Invocation is what an Evaluator sees for one case.
type Invocation struct {
	Case   Case
	Output string
}

// Arg returns the named eval argument as a string.
func (inv Invocation) Arg(name string) (string, error) {
	v, ok := inv.Case.EvalArgs[name]
	if !ok {
		return "", fmt.Errorf("eval arg %q is missing", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("eval arg %q must be a string, got %T", name, v)
	}
	return s, nil
}

// Result is the score an Evaluator assigns to one invocation.
type Result struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason,omitempty"`
}

// Evaluator scores a single invocation.
type Evaluator interface {
	Evaluate(ctx context.Context, invocation Invocation) (*Result, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(ctx context.Context, invocation Invocation) (*Result, error)

// Evaluate implements Evaluator.
func (f EvaluatorFunc) Evaluate(ctx context.Context, invocation Invocation) (*Result, error) {
	return f(ctx, invocation)
}

func outputText(v any) string {
	switch o := v.(type) {
	case string:
		return o
	case core.Message:
		return o.Content
	case fmt.Stringer:
		return o.String()
	default:
		return fmt.Sprint(v)
	}
}
