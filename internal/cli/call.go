package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newCallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [arguments-json]",
		Short: "Invoke a tool directly and print its envelope",
		Long: `Call a registered tool with a JSON object of arguments, bypassing the
model. Useful for inspecting what the model would see.

Examples:
  ragent call match '{"key word": "engineer", "categories": "positionName"}'
  ragent call match '{}'
  ragent call retrieval '{"query": "vacation policy"}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runCall,
	}
}

func runCall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}

	toolArgs := map[string]interface{}{}
	if len(args) == 2 && args[1] != "" {
		if err := json.Unmarshal([]byte(args[1]), &toolArgs); err != nil {
			return fmt.Errorf("arguments must be a JSON object: %w", err)
		}
	}

	res, err := sess.tools.Dispatch(ctx, args[0], toolArgs)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}
