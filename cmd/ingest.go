package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	ingestNamespace string
	ingestClear     bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [faq-file]",
	Short: "Embed a FAQ source file and load it into the knowledge index",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestNamespace, "namespace", "", "index namespace (defaults to the configured namespace)")
	ingestCmd.Flags().BoolVar(&ingestClear, "clear", false, "clear the namespace before loading")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	namespace := ingestNamespace
	if namespace == "" {
		namespace = a.cfg.Namespace
	}

	result, err := a.ingestor.Ingest(ctx, args[0], namespace, ingestClear)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", args[0], err)
	}

	fmt.Printf("Namespace:        %s\n", result.Namespace)
	fmt.Printf("FAQs loaded:      %d\n", result.FAQsLoaded)
	fmt.Printf("Vectors created:  %d\n", result.VectorsCreated)
	fmt.Printf("Vectors upserted: %d\n", result.VectorsUpserted)
	fmt.Printf("Index total:      %d (dimension %d)\n",
		result.IndexStats.TotalCount, result.IndexStats.Dimension)
	return nil
}
