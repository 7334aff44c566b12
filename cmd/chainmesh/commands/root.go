package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/chainmesh/config"
	"github.com/hupe1980/chainmesh/logging"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	cfgFile   string
	verbose   bool
	logFormat string

	cfg    *config.Config
	logger *logging.StructuredLogger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "chainmesh",
		Short: "LLM orchestration runtime",
		Long: `chainmesh - compose prompts, chat models, tools and memory.

Configuration is read from a YAML file (see --config). Values of the form
${VAR} are expanded from the environment.

Examples:
  # Chat with the configured model
  chainmesh --config chainmesh.yaml chat

  # Ask the ReAct agent a question
  chainmesh agent "What is 12 * (3 + 4)?"

  # Answer from local documents
  chainmesh rag --file notes.txt "When was the Eiffel Tower completed?"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: json, text or tint")

	root.AddCommand(newChatCmd(a))
	root.AddCommand(newAgentCmd(a))
	root.AddCommand(newRAGCmd(a))
	root.AddCommand(newEvalCmd(a))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) init() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	a.cfg = cfg
	a.logger = logging.NewLogger(cfg.LoggerConfig())
	return nil
}
