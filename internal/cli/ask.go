package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecagl/ragent/internal/formatter"
)

func newAskCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question and print the answer",
		Long: `Run a single question through the agent. The model may call the search
tools as many times as it needs before answering.

Examples:
  ragent ask "Which postings mention Kubernetes?"
  ragent ask -o json "What does the handbook say about remote work?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")
	answer, err := sess.agent.Ask(ctx, question)
	if err != nil {
		return err
	}

	out, err := newFormatter(sess.cfg).Format(&formatter.Report{
		Answer: answer,
	})
	if err != nil {
		return err
	}

	fmt.Print(string(out))
	return nil
}
