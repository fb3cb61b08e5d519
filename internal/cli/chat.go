package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ecagl/ragent/internal/dataset"
	"github.com/ecagl/ragent/internal/tui"
)

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Open a terminal chat over the agent. Conversation history carries across
questions within the session. The dataset file is watched while the session
runs; a change shows a staleness warning since loaded records and indexes
reflect startup state. Set dataset.watch to false to turn the watcher off.`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}

	program := tea.NewProgram(tui.New(ctx, sess.agent), tea.WithAltScreen())

	if sess.cfg.Dataset.Watch {
		watcher, err := dataset.Watch(sess.cfg.Dataset.Path, sess.log)
		if err != nil {
			// Chat still works without staleness warnings.
			fmt.Fprintf(os.Stderr, "Warning: cannot watch dataset: %v\n", err)
		} else {
			defer func() { _ = watcher.Close() }()
			go func() {
				for path := range watcher.Changes() {
					program.Send(tui.StaleMsg{Path: path})
				}
			}()
		}
	}

	_, err = program.Run()
	return err
}
