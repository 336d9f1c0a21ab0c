package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch configured folders and keep the index in sync",
	Long: `Watches the folders configured under watch.folders. New and changed
files are indexed automatically; deleted files are removed from the
index. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if watchRunner == nil {
		return errors.New("no watch folders configured (set watch.folders in the config)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Println("Watching for changes. Press Ctrl-C to stop.")
	err := watchRunner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
