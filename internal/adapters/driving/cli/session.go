package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage chat sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chat sessions",
	RunE:  runSessionList,
}

var sessionHistoryCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Show a session's messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionHistory,
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionHistoryCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionList(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	sessions, err := chatService.Sessions(context.Background())
	if err != nil {
		return fmt.Errorf("list sessions failed: %w", err)
	}
	if len(sessions) == 0 {
		cmd.Println("No sessions yet.")
		return nil
	}

	cmd.Println("Sessions:")
	for _, s := range sessions {
		cmd.Printf("  %s  %s  (%s)\n", s.ID, s.Title, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runSessionHistory(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	messages, err := chatService.History(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("history failed: %w", err)
	}

	for _, m := range messages {
		cmd.Printf("[%s] %s\n", m.Role, m.Content)
		if m.Role == "assistant" && m.Model != "" && verbose {
			cmd.Printf("      (%s, %s)\n", m.Model, m.RoutingReason)
		}
	}
	return nil
}
