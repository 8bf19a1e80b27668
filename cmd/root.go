// Package cmd implements the chakancha CLI: an interactive chat loop,
// one-shot questions, knowledge base maintenance, and shipment tracking.
package cmd

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "chakancha",
	Short: "Chakancha Global customer assistant",
	Long: `Chakancha is the conversational assistant for Chakancha Global,
a premium Kenyan tea company. It answers product questions from the FAQ
knowledge base, tracks DHL shipments, and maintains the knowledge base
source files.

Running chakancha without a subcommand starts the interactive chat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
