package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

var (
	indexTags      []string
	indexText      string
	indexTitle     string
	indexSourceURL string
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a file or raw text for semantic search",
	Long: `Extracts text from a file, splits it into chunks and adds them to the
retrieval index. Content that is already indexed is skipped.

With --text, indexes the given text directly instead of a file; --title
and --source-url describe where it came from.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringSliceVarP(&indexTags, "tags", "t", nil, "tags to attach to the document")
	indexCmd.Flags().StringVar(&indexText, "text", "", "raw text to index instead of a file")
	indexCmd.Flags().StringVar(&indexTitle, "title", "", "title for raw text (used with --text)")
	indexCmd.Flags().StringVar(&indexSourceURL, "source-url", "", "origin URL for raw text (used with --text)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	var (
		doc *domain.Document
		err error
	)
	switch {
	case indexText != "" && len(args) > 0:
		return errors.New("pass a path or --text, not both")
	case indexText != "":
		doc, err = indexService.IndexText(context.Background(), domain.TextInput{
			Title:     indexTitle,
			Text:      indexText,
			SourceURL: indexSourceURL,
			Tags:      indexTags,
		})
	case len(args) == 1:
		doc, err = indexService.Index(context.Background(), args[0], indexTags)
	default:
		return errors.New("pass a path or --text")
	}
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	cmd.Printf("Indexed %q (%d chunks)\n", doc.Title, doc.ChunkCount)
	cmd.Printf("  ID: %s\n", doc.ID)
	if len(doc.Tags) > 0 {
		cmd.Printf("  Tags: %v\n", doc.Tags)
	}
	return nil
}
