package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driving"
	"github.com/aurelia-labs/nexus-cli/internal/logger"
	"github.com/aurelia-labs/nexus-cli/internal/tools"
)

// Ensure AgentService implements the interface.
var _ driving.AgentService = (*AgentService)(nil)

const agentPromptTemplate = `You are an AI assistant with access to the following tools:

%s
To use a tool, respond with a JSON block in this format:
` + "```json" + `
{"tool": "tool_name", "parameters": {"param1": "value1"}}
` + "```" + `

After receiving tool results, provide your final response to the user.
If you don't need any tools, respond directly to the user.

Remember:
- Only use tools when necessary
- You can use multiple tools in sequence
- Always explain what you're doing
- Provide helpful, accurate responses`

// Tool call extraction: fenced JSON blocks first, bare inline objects
// as a fallback for models that skip the fences.
var (
	fencedToolCall = regexp.MustCompile("(?s)```json\\s*(\\{[^`]+\\})\\s*```")
	inlineToolCall = regexp.MustCompile(`\{"tool":\s*"[^"]+",\s*"parameters":\s*\{[^}]*\}\}`)
)

// AgentService runs bounded tool-augmented request loops.
type AgentService struct {
	registry *tools.Registry
	llm      driven.LLMClient
	settings domain.Settings
	maxIters int
}

// NewAgentService creates a new agent.
func NewAgentService(registry *tools.Registry, llm driven.LLMClient, settings domain.Settings) *AgentService {
	return &AgentService{
		registry: registry,
		llm:      llm,
		settings: settings,
		maxIters: domain.DefaultMaxAgentIterations,
	}
}

// Tools lists the registered tool names.
func (s *AgentService) Tools() []string {
	return s.registry.Names()
}

// Run executes the agent loop: ask the model, execute any tool calls
// it emits, feed results back, repeat. The loop ends when a response
// carries no tool calls or the iteration cap is hit.
func (s *AgentService) Run(ctx context.Context, request string, fn func(domain.AgentEvent) error) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}
	if fn == nil {
		fn = func(domain.AgentEvent) error { return nil }
	}

	system := fmt.Sprintf(agentPromptTemplate, s.registry.Describe())
	model := s.settings.ModelFor(domain.TierFast)

	messages := []domain.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: request},
	}

	var response string
	for iteration := 1; iteration <= s.maxIters; iteration++ {
		var err error
		response, err = s.llm.ChatStream(ctx, model, messages, driven.GenerateOptions{}, func(delta string) error {
			return fn(domain.AgentEvent{Type: domain.AgentEventContent, Content: delta, Iteration: iteration})
		})
		if err != nil {
			return "", fmt.Errorf("agent iteration %d: %w", iteration, err)
		}

		calls := extractToolCalls(response)
		if len(calls) == 0 {
			if err := fn(domain.AgentEvent{Type: domain.AgentEventDone, Content: response, Iteration: iteration}); err != nil {
				return "", err
			}
			return response, nil
		}

		messages = append(messages, domain.ChatMessage{Role: "assistant", Content: response})

		for _, call := range calls {
			if err := fn(domain.AgentEvent{
				Type:       domain.AgentEventToolCall,
				Iteration:  iteration,
				Tool:       call.Tool,
				Parameters: call.Parameters,
			}); err != nil {
				return "", err
			}

			result := s.executeTool(ctx, call)

			if err := fn(domain.AgentEvent{
				Type:      domain.AgentEventToolResult,
				Iteration: iteration,
				Tool:      call.Tool,
				Result:    result,
			}); err != nil {
				return "", err
			}

			payload, err := json.Marshal(result)
			if err != nil {
				payload = []byte(`{"success": false, "error": "unserialisable tool result"}`)
			}
			// Tool results go back as user turns so any chat model
			// can run the loop without native tool support.
			messages = append(messages, domain.ChatMessage{
				Role:    "user",
				Content: fmt.Sprintf("Tool '%s' returned: %s", call.Tool, payload),
			})
		}
	}

	if err := fn(domain.AgentEvent{Type: domain.AgentEventMaxIterations, Content: response, Iteration: s.maxIters}); err != nil {
		return "", err
	}
	return response, domain.ErrMaxIterations
}

// executeTool dispatches one call, folding failures into the result so
// the model can recover instead of the loop aborting.
func (s *AgentService) executeTool(ctx context.Context, call domain.ToolCall) map[string]any {
	result, err := s.registry.Execute(ctx, call)
	if err != nil {
		logger.Debug("Tool %s failed: %v", call.Tool, err)
		return map[string]any{"success": false, "error": err.Error()}
	}

	out := map[string]any{"success": true}
	if m, ok := result.(map[string]any); ok {
		for k, v := range m {
			out[k] = v
		}
	} else {
		out["result"] = result
	}
	return out
}

// extractToolCalls pulls tool call JSON out of a model response.
func extractToolCalls(text string) []domain.ToolCall {
	var calls []domain.ToolCall
	seen := make(map[string]bool)

	add := func(raw string) {
		if seen[raw] {
			return
		}
		var call domain.ToolCall
		if err := json.Unmarshal([]byte(raw), &call); err != nil {
			return
		}
		if call.Tool == "" {
			return
		}
		seen[raw] = true
		calls = append(calls, call)
	}

	for _, m := range fencedToolCall.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range inlineToolCall.FindAllString(text, -1) {
		add(m)
	}
	return calls
}
