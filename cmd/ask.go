package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/chakancha/chatbot/internal/session"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	question := strings.Join(args, " ")

	result := a.orchestrator.Execute(ctx, question, uuid.NewString(), session.NewHistory())
	fmt.Println(result.Reply)

	if verbose {
		fmt.Printf("\n[intent=%s tools=%v elapsed=%dms]\n",
			result.Intent, result.ToolsUsed, result.ElapsedMs)
	}
	return nil
}
