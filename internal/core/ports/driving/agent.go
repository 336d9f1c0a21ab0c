package driving

import (
	"context"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

// AgentService runs tool-augmented request loops.
type AgentService interface {
	// Run executes an agentic loop for one request, invoking fn
	// for every event (content, tool calls, tool results). The
	// final answer is returned once the loop terminates.
	Run(ctx context.Context, request string, fn func(domain.AgentEvent) error) (string, error)

	// Tools lists the registered tool names.
	Tools() []string
}
