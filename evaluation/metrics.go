package evaluation

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/model"
)

const faithfulnessSystem = "You are a meticulous evaluator. Your task is to determine if the " +
	"'Answer' is fully supported by the provided 'Context'. Respond with only 'yes' or 'no'."

// Faithfulness asks judge whether the output is grounded in the "context"
// eval argument. A "yes" verdict scores 1.0, anything else 0.0. The case
// must provide "query" and "context" eval arguments.
func Faithfulness(judge model.ChatModel) Evaluator {
	return EvaluatorFunc(func(ctx context.Context, inv Invocation) (*Result, error) {
		query, err := inv.Arg("query")
		if err != nil {
			return nil, err
		}
		grounding, err := inv.Arg("context")
		if err != nil {
			return nil, err
		}

		prompt := []core.Message{
			core.SystemMessage(faithfulnessSystem),
			core.HumanMessage(fmt.Sprintf(
				"Query: %s\n\nContext: %s\n\nAnswer: %s\n\nIs the Answer fully supported by the Context? (yes/no)",
				query, grounding, inv.Output,
			)),
		}
		resp, err := judge.Invoke(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("faithfulness judge: %w", err)
		}

		verdict := strings.ToLower(strings.TrimSpace(resp.Content))
		score := 0.0
		if verdict == "yes" {
			score = 1.0
		}
		return &Result{Score: score, Reason: verdict}, nil
	})
}

// ExactMatch scores 1.0 when the trimmed output equals the "expected" eval
// argument.
func ExactMatch() Evaluator {
	return EvaluatorFunc(func(_ context.Context, inv Invocation) (*Result, error) {
		expected, err := inv.Arg("expected")
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(inv.Output) == strings.TrimSpace(expected) {
			return &Result{Score: 1}, nil
		}
		return &Result{Score: 0, Reason: fmt.Sprintf("expected %q", expected)}, nil
	})
}
