package domain

// ToolCall is a structured request embedded in model output, naming a
// tool and its parameters. Extraction is best-effort: malformed blocks
// always yield zero calls, never an error.
type ToolCall struct {
	// Tool is the requested tool name.
	Tool string `json:"tool"`

	// Parameters is the parameter map for the call.
	Parameters map[string]any `json:"parameters"`
}

// AgentEventType identifies the kind of event emitted during an agent run.
type AgentEventType string

// Agent event types, in rough lifecycle order.
const (
	// AgentEventContent carries a streamed model output delta.
	AgentEventContent AgentEventType = "content"

	// AgentEventToolCall announces a tool about to execute.
	AgentEventToolCall AgentEventType = "tool_call"

	// AgentEventToolResult carries a tool's result.
	AgentEventToolResult AgentEventType = "tool_result"

	// AgentEventDone carries the final answer.
	AgentEventDone AgentEventType = "done"

	// AgentEventMaxIterations signals the iteration cap was reached
	// with tool calls still pending.
	AgentEventMaxIterations AgentEventType = "max_iterations"
)

// AgentEvent is a single event emitted while the agent loop runs.
type AgentEvent struct {
	// Type identifies the event kind.
	Type AgentEventType

	// Content is the streamed delta or final answer text.
	Content string

	// Iteration is the loop iteration the event belongs to.
	Iteration int

	// Tool is the tool name for tool_call and tool_result events.
	Tool string

	// Parameters is the parameter map for tool_call events.
	Parameters map[string]any

	// Result is the tool output for tool_result events.
	Result map[string]any
}
