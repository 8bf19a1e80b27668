package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chakancha/chatbot/internal/knowledge"
)

var validateCmd = &cobra.Command{
	Use:   "validate [faq-file]",
	Short: "Validate a FAQ source file",
	Long: `Validate a FAQ source file against the knowledge base schema.
Errors reject the file; warnings flag entries worth reviewing but do
not block ingestion.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	report := knowledge.ValidateFile(args[0])

	for _, w := range report.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, e := range report.Errors {
		fmt.Printf("error: %s\n", e)
	}

	if !report.Valid() {
		return fmt.Errorf("%s: %d error(s), %d warning(s)", args[0], len(report.Errors), len(report.Warnings))
	}

	fmt.Printf("%s is valid (%d warning(s))\n", args[0], len(report.Warnings))
	return nil
}
