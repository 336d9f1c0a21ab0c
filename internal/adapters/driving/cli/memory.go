package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

var (
	memoryType     string
	memoryCategory string
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Manage what the assistant remembers about you",
}

var memoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored memories",
	RunE:  runMemoryList,
}

var memoryAddCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Store a memory explicitly",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoryAdd,
}

var memoryForgetCmd = &cobra.Command{
	Use:   "forget [memory-id]",
	Short: "Delete a memory",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoryForget,
}

func init() {
	memoryAddCmd.Flags().StringVarP(&memoryType, "type", "t", "fact", "memory type: fact, preference or topic")
	memoryAddCmd.Flags().StringVarP(&memoryCategory, "category", "c", "", "free-form category")

	memoryCmd.AddCommand(memoryListCmd)
	memoryCmd.AddCommand(memoryAddCmd)
	memoryCmd.AddCommand(memoryForgetCmd)
	rootCmd.AddCommand(memoryCmd)
}

func runMemoryList(cmd *cobra.Command, _ []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	memories, err := memoryService.List(context.Background())
	if err != nil {
		return fmt.Errorf("list memories failed: %w", err)
	}
	if len(memories) == 0 {
		cmd.Println("Nothing remembered yet.")
		return nil
	}

	cmd.Printf("Memories (%d):\n\n", len(memories))
	for _, m := range memories {
		cmd.Printf("  %s\n", m.Content)
		cmd.Printf("    ID: %s  Type: %s  Category: %s  Confidence: %.1f\n\n",
			m.ID, m.Type, m.Category, m.Confidence)
	}
	return nil
}

func runMemoryAdd(cmd *cobra.Command, args []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	typ := domain.MemoryType(memoryType)
	if !typ.IsValid() {
		return fmt.Errorf("invalid memory type %q", memoryType)
	}

	mem, err := memoryService.Remember(context.Background(), args[0], typ, memoryCategory)
	if err != nil {
		return fmt.Errorf("remember failed: %w", err)
	}
	cmd.Printf("Remembered (%s): %s\n", mem.ID, mem.Content)
	return nil
}

func runMemoryForget(cmd *cobra.Command, args []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	if err := memoryService.Forget(context.Background(), args[0]); err != nil {
		return fmt.Errorf("forget failed: %w", err)
	}
	cmd.Println("Forgotten.")
	return nil
}
