package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/chainmesh/chain"
	"github.com/hupe1980/chainmesh/prompt"
)

func newChatCmd(a *app) *cobra.Command {
	var useGuide bool
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the configured model",
		Long: `Start a conversation. With a message argument a single turn is run;
otherwise lines are read from stdin until EOF or "exit".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := newModel(a.cfg.Model)
			if err != nil {
				return err
			}
			mem, err := newMemory(a.cfg.Memory, m, a.logger)
			if err != nil {
				return err
			}

			var p *prompt.ChatTemplate
			if useGuide {
				guide, err := newGuide(ctx, a.cfg.StyleGuide)
				if err != nil {
					return err
				}
				p = guide.Bind(prompt.MustChatTemplate(
					prompt.System("{{.style_guide}}"),
					prompt.OptionalPlaceholder(mem.MemoryKey()),
					prompt.Human("{{.input}}"),
				), "style_guide")
			}

			conv, err := chain.NewConversation(m, func(o *chain.ConversationOptions) {
				o.Memory = mem
				o.Logger = a.logger.WithComponent("chat")
				if p != nil {
					o.Prompt = p
				}
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				reply, err := conv.Predict(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, reply)
				return nil
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}
				reply, err := conv.Predict(ctx, line)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, reply)
			}
			fmt.Fprintln(out)
			return scanner.Err()
		},
	}
	cmd.Flags().BoolVar(&useGuide, "style-guide", false, "use the configured style guide as system prompt")
	return cmd
}
