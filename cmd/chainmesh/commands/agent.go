package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAgentCmd(a *app) *cobra.Command {
	var showSteps bool
	cmd := &cobra.Command{
		Use:   "agent <question>",
		Short: "Ask the ReAct agent a question",
		Long: `Run the ReAct agent with the built-in demo tools:
calculator, clock, word_count, echo and convert_temperature.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newModel(a.cfg.Model)
			if err != nil {
				return err
			}
			mem, err := newMemory(a.cfg.Memory, m, a.logger)
			if err != nil {
				return err
			}
			exec, err := newAgent(a.cfg, m, mem, a.logger)
			if err != nil {
				return err
			}

			res, err := exec.Run(cmd.Context(), map[string]any{"input": args[0]})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showSteps {
				for _, s := range res.Steps {
					fmt.Fprintf(out, "[%d] %s(%s) -> %s\n", s.Iteration, s.Action, s.Input, s.Observation)
				}
			}
			fmt.Fprintln(out, res.Output)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showSteps, "steps", false, "print intermediate tool calls")
	return cmd
}
