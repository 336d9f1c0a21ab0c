// Package cli implements the nexus command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driving"
	"github.com/aurelia-labs/nexus-cli/internal/logger"
)

// version is stamped by main at startup.
var version = "dev"

// WatchRunner runs a blocking folder watch until its context ends.
type WatchRunner interface {
	Run(ctx context.Context) error
}

// Services wired in by main before Execute. Commands check for nil so
// a partially wired binary degrades with a clear error instead of a
// panic.
var (
	indexService  driving.IndexService
	chatService   driving.ChatService
	agentService  driving.AgentService
	memoryService driving.MemoryService
	routerService driving.RouterService
	watchRunner   WatchRunner
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Local-first personal assistant",
	Long: `Nexus is a local-first personal assistant. It indexes your documents
for semantic search, routes each request to the best local model, and
answers with your documents and memories as context.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services bundles everything the commands need.
type Services struct {
	Index  driving.IndexService
	Chat   driving.ChatService
	Agent  driving.AgentService
	Memory driving.MemoryService
	Router driving.RouterService
	Watch  WatchRunner
}

// SetServices wires the service layer into the commands.
func SetServices(s Services) {
	indexService = s.Index
	chatService = s.Chat
	agentService = s.Agent
	memoryService = s.Memory
	routerService = s.Router
	watchRunner = s.Watch
}

// SetVersion stamps the build version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
