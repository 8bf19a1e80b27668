package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/chakancha/chatbot/internal/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sessionID, err := resumeOrCreateSession(a)
	if err != nil {
		return err
	}

	fmt.Println("Chakancha Global assistant. Type 'exit' to quit, '/new' for a fresh session.")
	fmt.Printf("Session: %s\n\n", sessionID)

	history := session.NewHistory()
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)

	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "exit", "quit":
			fmt.Println("Goodbye! 🍵")
			return nil
		case "/new":
			sessionID = uuid.New()
			if err := session.SaveCurrentSessionID(sessionID); err != nil {
				a.logger.Warn("failed to persist session id", "error", err)
			}
			history.Clear()
			fmt.Printf("Started new session: %s\n", sessionID)
			continue
		}

		result := a.orchestrator.Execute(ctx, line, sessionID.String(), history)
		fmt.Printf("\n%s\n\n", result.Reply)
		if verbose {
			fmt.Printf("[intent=%s tools=%v elapsed=%dms]\n\n",
				result.Intent, result.ToolsUsed, result.ElapsedMs)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// resumeOrCreateSession reuses the persisted session id when present so
// consecutive CLI invocations stay in the same logical conversation.
func resumeOrCreateSession(a *app) (uuid.UUID, error) {
	existing, err := session.LoadCurrentSessionID()
	if err != nil {
		a.logger.Warn("failed to load session state", "error", err)
	}
	if existing != nil {
		return *existing, nil
	}

	id := uuid.New()
	if err := session.SaveCurrentSessionID(id); err != nil {
		a.logger.Warn("failed to persist session id", "error", err)
	}
	return id, nil
}
