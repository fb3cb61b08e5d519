// Package cli wires the commands: ask a single question, chat
// interactively, build indexes, call a tool directly, and list tools.
package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	outputFmt string
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ragent",
		Short: "Tool-calling agent over job postings and documents",
		Long: `ragent answers questions by letting a language model call retrieval tools:
semantic search over a job posting collection and over a plain-text document
knowledge base. Indexes are built from embeddings on first use and reused
from disk afterwards.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	// An empty default lets the config file choose; the flag overrides it.
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json)")

	// Add subcommands
	rootCmd.AddCommand(newAskCommand())
	rootCmd.AddCommand(newChatCommand())
	rootCmd.AddCommand(newIndexCommand())
	rootCmd.AddCommand(newCallCommand())
	rootCmd.AddCommand(newToolsCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			if version == "" || version == "dev" {
				version = "development"
			}
			if commit == "" || commit == "none" {
				commit = "local-build"
			}
			if date == "" || date == "unknown" {
				date = "local-build"
			}

			fmt.Printf("ragent %s (%s) built on %s\n", version, commit, date)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
