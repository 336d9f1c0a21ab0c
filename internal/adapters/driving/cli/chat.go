package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driving"
)

var (
	chatSession string
	chatModel   string
	chatDocs    bool
	chatPlain   bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with the assistant",
	Long: `Sends one message to the assistant, or starts an interactive
conversation when no message is given. Each message is routed to the
local model best suited for it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "session ID to continue")
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "override the routed model")
	chatCmd.Flags().BoolVarP(&chatDocs, "docs", "d", false, "retrieve indexed documents as context")
	chatCmd.Flags().BoolVar(&chatPlain, "no-stream", false, "print the full reply instead of streaming")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if len(args) == 1 {
		return chatOnce(cmd, chatSession, args[0])
	}
	return chatInteractive(cmd)
}

func chatOnce(cmd *cobra.Command, sessionID, message string) error {
	opts := driving.ChatOptions{
		ModelOverride: chatModel,
		UseDocuments:  chatDocs,
	}
	if !chatPlain {
		opts.OnDelta = func(delta string) error {
			cmd.Print(delta)
			return nil
		}
	}

	reply, err := chatService.Chat(context.Background(), sessionID, message, opts)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	if chatPlain {
		cmd.Println(reply.Content)
	} else {
		cmd.Println()
	}
	if verbose {
		cmd.Printf("\n[%s via %s]\n", reply.Task, reply.Model)
		if len(reply.Documents) > 0 {
			cmd.Printf("[Sources: %s]\n", strings.Join(reply.Documents, ", "))
		}
	}
	return nil
}

func chatInteractive(cmd *cobra.Command) error {
	session, err := chatService.NewSession(context.Background(), "")
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	cmd.Printf("Session %s. Type 'exit' to quit.\n\n", session.ID)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "exit" || message == "quit" {
			break
		}
		if err := chatOnce(cmd, session.ID, message); err != nil {
			cmd.PrintErrf("Error: %v\n", err)
		}
		cmd.Println()
	}
	return scanner.Err()
}
