package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chakancha/chatbot/internal/tracking"
)

var trackCmd = &cobra.Command{
	Use:   "track [tracking-number]",
	Short: "Look up a DHL shipment directly",
	Long: `Look up a DHL shipment without going through the chat pipeline.
Without a DHL_API_KEY the client runs in mock mode; try TEST123 or
DELIVERED456 for the canned scenarios.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	// Tracking needs no database or AI provider, so the full config
	// (and its GEMINI_API_KEY requirement) is skipped here.
	client := tracking.NewClient(os.Getenv("DHL_API_KEY"), logger)
	if client.MockMode() {
		fmt.Println("(mock mode: no DHL API key configured)")
	}

	result, err := client.Track(context.Background(), args[0])
	if err != nil && result == nil {
		return fmt.Errorf("tracking %s: %w", args[0], err)
	}

	fmt.Println(tracking.FormatResult(result))
	return nil
}
