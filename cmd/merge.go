package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chakancha/chatbot/internal/knowledge"
)

var (
	mergeOutput string
	mergeBackup bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge [base-file] [new-file]",
	Short: "Merge two FAQ source files",
	Long: `Merge a new FAQ file into a base file. Entries with matching ids
take the new file's content; new ids are appended; identical entries
are skipped. The merged file is validated before it is accepted.`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "output file (defaults to the base file)")
	mergeCmd.Flags().BoolVar(&mergeBackup, "backup", true, "back up the base file before writing")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	merger := knowledge.NewMerger(newLogger())

	result, err := merger.Merge(args[0], args[1], mergeOutput, mergeBackup)
	if err != nil {
		return fmt.Errorf("merging: %w", err)
	}

	fmt.Printf("Base FAQs: %d\n", result.BaseFAQs)
	fmt.Printf("New FAQs:  %d\n", result.NewFAQs)
	fmt.Printf("Added:     %d\n", result.Added)
	fmt.Printf("Updated:   %d\n", result.Updated)
	fmt.Printf("Skipped:   %d\n", result.Skipped)
	fmt.Printf("Total:     %d\n", result.TotalFAQs)
	if result.BackupPath != "" {
		fmt.Printf("Backup:    %s\n", result.BackupPath)
	}
	return nil
}
