package evaluation

import (
	"context"
	"fmt"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/logging"
	"github.com/hupe1980/chainmesh/runnable"
)

// CaseReport records the outcome of one case.
type CaseReport struct {
	Name   string         `json:"name" yaml:"name"`
	Inputs map[string]any `json:"inputs" yaml:"inputs"`
	Output string         `json:"output" yaml:"output"`
	Score  float64        `json:"score" yaml:"score"`
	Reason string         `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Report aggregates a harness run. AverageScore is 0 for an empty dataset.
type Report struct {
	Cases        []CaseReport `json:"cases" yaml:"cases"`
	AverageScore float64      `json:"average_score" yaml:"average_score"`
}

// HarnessOptions configure a Harness.
type HarnessOptions struct {
	Logger logging.Logger
}

// Harness runs every dataset case through a runnable and scores the output.
type Harness struct {
	runnable  runnable.Runnable
	evaluator Evaluator
	dataset   Dataset
	logger    logging.Logger
}

// NewHarness creates a Harness.
func NewHarness(r runnable.Runnable, e Evaluator, ds Dataset, optFns ...func(o *HarnessOptions)) (*Harness, error) {
	opts := HarnessOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if r == nil {
		return nil, core.NewConfigurationError("evaluation", "runnable", "must not be nil")
	}
	if e == nil {
		return nil, core.NewConfigurationError("evaluation", "evaluator", "must not be nil")
	}
	return &Harness{runnable: r, evaluator: e, dataset: ds, logger: logging.OrNoOp(opts.Logger)}, nil
}

// Run evaluates the dataset in order. The first failing case aborts the run.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	report := &Report{Cases: make([]CaseReport, 0, len(h.dataset))}
	h.logger.Info("evaluation.start", "cases", len(h.dataset))

	var total float64
	for i, c := range h.dataset {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("case-%d", i+1)
		}

		out, err := h.runnable.Invoke(ctx, c.Inputs)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", name, err)
		}
		inv := Invocation{Case: c, Output: outputText(out)}

		res, err := h.evaluator.Evaluate(ctx, inv)
		if err != nil {
			return nil, fmt.Errorf("case %s: evaluate: %w", name, err)
		}

		h.logger.Debug("evaluation.case", "case", name, "score", res.Score)
		report.Cases = append(report.Cases, CaseReport{
			Name:   name,
			Inputs: c.Inputs,
			Output: inv.Output,
			Score:  res.Score,
			Reason: res.Reason,
		})
		total += res.Score
	}

	if n := len(report.Cases); n > 0 {
		report.AverageScore = total / float64(n)
	}
	h.logger.Info("evaluation.complete", "average_score", report.AverageScore)
	return report, nil
}
