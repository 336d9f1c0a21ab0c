package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

var agentCmd = &cobra.Command{
	Use:   "agent [request]",
	Short: "Run a request through the tool-using agent",
	Long: `Hands a request to the agent loop. The model may call tools
(calculator, clock, file reading, web search) and feeds their results
back into its reasoning before answering.`,
	Args: cobra.ExactArgs(1),
	RunE: runAgent,
}

func init() {
	rootCmd.AddCommand(agentCmd)
}

func runAgent(cmd *cobra.Command, args []string) error {
	if agentService == nil {
		return errors.New("agent service not configured")
	}

	_, err := agentService.Run(context.Background(), args[0], func(e domain.AgentEvent) error {
		switch e.Type {
		case domain.AgentEventContent:
			cmd.Print(e.Content)
		case domain.AgentEventToolCall:
			cmd.Printf("\n[calling %s", e.Tool)
			if len(e.Parameters) > 0 {
				parts := make([]string, 0, len(e.Parameters))
				for k, v := range e.Parameters {
					parts = append(parts, fmt.Sprintf("%s=%v", k, v))
				}
				cmd.Printf(" %s", strings.Join(parts, " "))
			}
			cmd.Println("]")
		case domain.AgentEventToolResult:
			if ok, _ := e.Result["success"].(bool); !ok {
				cmd.Printf("[%s failed: %v]\n", e.Tool, e.Result["error"])
			}
		case domain.AgentEventDone:
			cmd.Println()
		case domain.AgentEventMaxIterations:
			cmd.Println("\n[stopped: too many tool iterations]")
		}
		return nil
	})
	if err != nil && !errors.Is(err, domain.ErrMaxIterations) {
		return fmt.Errorf("agent failed: %w", err)
	}
	return nil
}
