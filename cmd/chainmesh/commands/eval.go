package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/chainmesh/chain"
	"github.com/hupe1980/chainmesh/evaluation"
	"github.com/hupe1980/chainmesh/runnable"
)

func newEvalCmd(a *app) *cobra.Command {
	var (
		datasetPath string
		target      string
		metric      string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "eval --dataset <file>",
		Short: "Score a pipeline against a YAML dataset",
		Long: `Run every dataset case through the target pipeline and score it.

Targets:
  chat   - a stateless conversation turn (default)
  agent  - the ReAct agent with the demo tools

Metrics:
  faithfulness - LLM-as-judge; cases need "query" and "context" eval_args
  exact        - cases need an "expected" eval_arg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := evaluation.LoadDataset(datasetPath)
			if err != nil {
				return err
			}
			m, err := newModel(a.cfg.Model)
			if err != nil {
				return err
			}

			var r runnable.Runnable
			switch target {
			case "agent":
				mem, err := newMemory(a.cfg.Memory, m, a.logger)
				if err != nil {
					return err
				}
				if r, err = newAgent(a.cfg, m, mem, a.logger); err != nil {
					return err
				}
			case "chat":
				// fresh memory per case keeps cases independent
				r = runnable.Lambda(func(ctx context.Context, in map[string]any) (string, error) {
					conv, err := chain.NewConversation(m, func(o *chain.ConversationOptions) { o.Logger = a.logger })
					if err != nil {
						return "", err
					}
					return conv.Call(ctx, in)
				})
			default:
				return fmt.Errorf("unknown target %q", target)
			}

			var e evaluation.Evaluator
			switch metric {
			case "faithfulness":
				e = evaluation.Faithfulness(m)
			case "exact":
				e = evaluation.ExactMatch()
			default:
				return fmt.Errorf("unknown metric %q", metric)
			}

			h, err := evaluation.NewHarness(r, e, ds, func(o *evaluation.HarnessOptions) {
				o.Logger = a.logger.WithComponent("evaluation")
			})
			if err != nil {
				return err
			}
			report, err := h.Run(cmd.Context())
			if err != nil {
				return err
			}
			return writeReport(cmd, report, asJSON)
		},
	}
	cmd.Flags().StringVarP(&datasetPath, "dataset", "d", "", "YAML dataset file")
	cmd.Flags().StringVar(&target, "target", "chat", "pipeline to evaluate: chat or agent")
	cmd.Flags().StringVar(&metric, "metric", "faithfulness", "metric: faithfulness or exact")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}

func writeReport(cmd *cobra.Command, report *evaluation.Report, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
