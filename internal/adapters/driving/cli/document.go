package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage indexed documents",
	Long:  `List, reindex, summarize or delete indexed documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents",
	RunE:  runDocumentList,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Remove a document from the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentReindexCmd = &cobra.Command{
	Use:   "reindex [doc-id]",
	Short: "Re-ingest a document from its source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentReindex,
}

var documentSummarizeCmd = &cobra.Command{
	Use:   "summarize [doc-id]",
	Short: "Generate a summary of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentSummarize,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentReindexCmd)
	documentCmd.AddCommand(documentSummarizeCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	docs, err := indexService.List(context.Background())
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}
	if len(docs) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}

	cmd.Printf("Indexed documents (%d):\n\n", len(docs))
	for _, doc := range docs {
		cmd.Printf("  %s\n", doc.Title)
		cmd.Printf("    ID: %s\n", doc.ID)
		cmd.Printf("    Path: %s\n", doc.FilePath)
		cmd.Printf("    Chunks: %d", doc.ChunkCount)
		if len(doc.Tags) > 0 {
			cmd.Printf("  Tags: %v", doc.Tags)
		}
		cmd.Println()
		cmd.Println()
	}
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	if err := indexService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	cmd.Println("Document removed from index.")
	return nil
}

func runDocumentReindex(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	doc, err := indexService.Reindex(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	cmd.Printf("Reindexed %q (%d chunks)\n", doc.Title, doc.ChunkCount)
	return nil
}

func runDocumentSummarize(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	summary, err := indexService.Summarize(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("summarize failed: %w", err)
	}
	cmd.Println(summary)
	return nil
}
