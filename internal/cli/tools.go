package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecagl/ragent/internal/formatter"
)

func newToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools advertised to the model",
		Args:  cobra.NoArgs,
		RunE:  runTools,
	}
}

func runTools(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cmd.Context())
	if err != nil {
		return err
	}

	defs := sess.tools.Definitions()

	if sess.cfg.Output.Format == "json" {
		out, err := json.MarshalIndent(defs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	facts := make([]formatter.Fact, 0, len(defs))
	for _, def := range defs {
		facts = append(facts, formatter.Fact{
			Label: def.Function.Name,
			Value: fmt.Sprintf("%s (required: %s)",
				def.Function.Description,
				strings.Join(def.Function.Parameters.Required, ", ")),
		})
	}

	out, err := newFormatter(sess.cfg).Format(&formatter.Report{
		Title: "Registered tools",
		Facts: facts,
	})
	if err != nil {
		return err
	}

	fmt.Print(string(out))
	return nil
}
